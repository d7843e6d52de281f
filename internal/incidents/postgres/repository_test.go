//go:build integration

package postgres

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/incidents"
	pgpostgres "github.com/bissquit/incident-tracker/internal/pkg/postgres"
	"github.com/bissquit/incident-tracker/internal/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := testutil.NewPostgresContainer(ctx)
	if err != nil {
		log.Fatalf("start postgres: %v", err)
	}

	if err := pgpostgres.Migrate(pgContainer.ConnectionString); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	testDB, err = pgpostgres.Connect(ctx, pgpostgres.Config{
		URL:             pgContainer.ConnectionString,
		MaxOpenConns:    5,
		ConnectAttempts: 3,
	})
	if err != nil {
		log.Fatalf("connect: %v", err)
	}

	code := m.Run()

	testDB.Close()
	if err := pgContainer.Terminate(ctx); err != nil {
		log.Printf("terminate postgres: %v", err)
	}

	os.Exit(code)
}

func newRepository(t *testing.T) *Repository {
	t.Helper()
	_, err := testDB.Exec(context.Background(), `TRUNCATE incidents`)
	require.NoError(t, err)
	return NewRepository(testDB)
}

func newIncident(incidentType string, createdAt time.Time) *domain.Incident {
	return &domain.Incident{
		ID:                uuid.NewString(),
		Type:              incidentType,
		IncidentStartDate: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Description:       "Major network outage affecting the main office.",
		Status:            domain.IncidentStatusOpen,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	end := time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC)
	incident := newIncident("Network Outage", time.Date(2024, 1, 16, 9, 0, 0, 123456000, time.UTC))
	incident.IncidentEndDate = &end
	incident.Status = domain.IncidentStatusClosed
	incident.Remarks = "Faulty switch"

	require.NoError(t, repo.CreateIncident(ctx, incident))

	got, err := repo.GetIncident(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, incident, got)
}

func TestRepository_GetMissing(t *testing.T) {
	repo := newRepository(t)

	_, err := repo.GetIncident(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, incidents.ErrIncidentNotFound)
}

func TestRepository_ListNewestFirstWithFilter(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	older := newIncident("Older", base)
	newer := newIncident("Newer", base.Add(time.Hour))
	closedEnd := base
	newer.Status = domain.IncidentStatusClosed
	newer.IncidentEndDate = &closedEnd
	require.NoError(t, repo.CreateIncident(ctx, older))
	require.NoError(t, repo.CreateIncident(ctx, newer))

	all, err := repo.ListIncidents(ctx, incidents.IncidentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Newer", all[0].Type)
	assert.Equal(t, "Older", all[1].Type)

	open := domain.IncidentStatusOpen
	filtered, err := repo.ListIncidents(ctx, incidents.IncidentFilter{Status: &open})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, older.ID, filtered[0].ID)
}

func TestRepository_ListEmpty(t *testing.T) {
	repo := newRepository(t)

	list, err := repo.ListIncidents(context.Background(), incidents.IncidentFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_Update(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	incident := newIncident("Network Outage", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.CreateIncident(ctx, incident))

	incident.Remarks = "Escalated"
	incident.UpdatedAt = incident.UpdatedAt.Add(time.Second)
	require.NoError(t, repo.UpdateIncident(ctx, incident))

	got, err := repo.GetIncident(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, "Escalated", got.Remarks)
	assert.Equal(t, incident.UpdatedAt, got.UpdatedAt)
	assert.Equal(t, incident.CreatedAt, got.CreatedAt)

	missing := newIncident("Ghost", time.Now().UTC())
	assert.ErrorIs(t, repo.UpdateIncident(ctx, missing), incidents.ErrIncidentNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	incident := newIncident("Network Outage", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.CreateIncident(ctx, incident))

	require.NoError(t, repo.DeleteIncident(ctx, incident.ID))
	assert.ErrorIs(t, repo.DeleteIncident(ctx, incident.ID), incidents.ErrIncidentNotFound)

	_, err := repo.GetIncident(ctx, incident.ID)
	assert.ErrorIs(t, err, incidents.ErrIncidentNotFound)
}

func TestRepository_WithService(t *testing.T) {
	repo := newRepository(t)
	service := incidents.NewService(repo, nil)
	ctx := context.Background()

	created, err := service.CreateIncident(ctx, incidents.CreateIncidentInput{
		Type:              "Network Outage",
		IncidentStartDate: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Description:       "Major network outage affecting the main office.",
	})
	require.NoError(t, err)

	closed, err := service.CloseIncident(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IncidentStatusClosed, closed.Status)
	require.NotNil(t, closed.IncidentEndDate)

	stored, err := service.GetIncident(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, closed, stored)
	assert.True(t, stored.UpdatedAt.After(created.UpdatedAt))
}
