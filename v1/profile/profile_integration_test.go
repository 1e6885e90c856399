package profile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer starts a disposable PostgreSQL container and
// returns a connected, migrated Store.
func setupPostgresContainer(ctx context.Context, t *testing.T) (*Store, func()) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image: "postgres:16-alpine",
		Env: map[string]string{
			"POSTGRES_USER":     "wellness",
			"POSTGRES_PASSWORD": "wellness",
			"POSTGRES_DB":       "wellness",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Connection.Host = host
	cfg.Connection.Port = mappedPort.Port()
	cfg.Connection.User = "wellness"
	cfg.Connection.Password = "wellness"
	cfg.Connection.DbName = "wellness"

	// The port can be mapped before postgres accepts connections; retry briefly.
	var store *Store
	for attempt := 0; attempt < 10; attempt++ {
		store, err = NewStore(cfg)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))

	cleanup := func() {
		_ = store.GracefulShutdown()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return store, cleanup
}

func TestProfileStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	store, cleanup := setupPostgresContainer(ctx, t)
	defer cleanup()

	t.Run("ProfileRoundTrip", func(t *testing.T) {
		p := &UserProfile{
			Email:       "ada@example.com",
			DisplayName: "Ada",
			Timezone:    "Europe/Berlin",
		}
		require.NoError(t, store.SaveProfile(ctx, p))
		require.NotEmpty(t, p.ID)

		loaded, err := store.GetProfile(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", loaded.Email)
		assert.Equal(t, "Europe/Berlin", loaded.Timezone)

		byEmail, err := store.GetProfileByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, p.ID, byEmail.ID)
	})

	t.Run("DuplicateEmailRejected", func(t *testing.T) {
		first := &UserProfile{Email: "dup@example.com"}
		require.NoError(t, store.SaveProfile(ctx, first))

		second := &UserProfile{Email: "dup@example.com"}
		err := store.SaveProfile(ctx, second)
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("GetProfileNotFound", func(t *testing.T) {
		_, err := store.GetProfile(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("SessionsNewestFirst", func(t *testing.T) {
		userID := uuid.NewString()
		base := time.Now().UTC().Add(-24 * time.Hour)

		for i := 0; i < 3; i++ {
			require.NoError(t, store.SaveSession(ctx, &TherapySession{
				UserID:    userID,
				StartedAt: base.Add(time.Duration(i) * time.Hour),
				Summary:   fmt.Sprintf("session %d", i),
			}))
		}

		sessions, err := store.ListSessions(ctx, userID, 10)
		require.NoError(t, err)
		require.Len(t, sessions, 3)
		assert.Equal(t, "session 2", sessions[0].Summary)
		assert.Equal(t, "session 0", sessions[2].Summary)
	})

	t.Run("CrisisFlagCount", func(t *testing.T) {
		userID := uuid.NewString()
		now := time.Now().UTC()

		require.NoError(t, store.SaveSession(ctx, &TherapySession{
			UserID: userID, StartedAt: now.Add(-2 * time.Hour), CrisisFlagged: true,
		}))
		require.NoError(t, store.SaveSession(ctx, &TherapySession{
			UserID: userID, StartedAt: now.Add(-1 * time.Hour), CrisisFlagged: false,
		}))
		require.NoError(t, store.SaveSession(ctx, &TherapySession{
			UserID: userID, StartedAt: now.Add(-40 * 24 * time.Hour), CrisisFlagged: true,
		}))

		count, err := store.CountCrisisFlags(ctx, userID, now.Add(-7*24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("PlanLifecycle", func(t *testing.T) {
		userID := uuid.NewString()

		plan := &WellnessPlan{
			UserID:  userID,
			Kind:    PlanKindFitness,
			Content: `{"sessions_per_week": 3}`,
		}
		require.NoError(t, store.SavePlan(ctx, plan))
		assert.Equal(t, PlanStatusActive, plan.Status)

		active, err := store.ActivePlans(ctx, userID, PlanKindFitness)
		require.NoError(t, err)
		require.Len(t, active, 1)

		require.NoError(t, store.ArchivePlan(ctx, plan.ID))

		active, err = store.ActivePlans(ctx, userID, "")
		require.NoError(t, err)
		assert.Empty(t, active)

		assert.ErrorIs(t, store.ArchivePlan(ctx, uuid.NewString()), ErrNotFound)
	})

	t.Run("AppointmentsSoonestFirst", func(t *testing.T) {
		userID := uuid.NewString()
		now := time.Now().UTC()

		later := &Appointment{
			UserID: userID, Title: "therapy check-in",
			StartsAt: now.Add(48 * time.Hour), EndsAt: now.Add(49 * time.Hour),
		}
		sooner := &Appointment{
			UserID: userID, Title: "fitness session",
			StartsAt: now.Add(24 * time.Hour), EndsAt: now.Add(25 * time.Hour),
		}
		require.NoError(t, store.SaveAppointment(ctx, later))
		require.NoError(t, store.SaveAppointment(ctx, sooner))

		upcoming, err := store.UpcomingAppointments(ctx, userID, now)
		require.NoError(t, err)
		require.Len(t, upcoming, 2)
		assert.Equal(t, "fitness session", upcoming[0].Title)

		require.NoError(t, store.CancelAppointment(ctx, sooner.ID))
		upcoming, err = store.UpcomingAppointments(ctx, userID, now)
		require.NoError(t, err)
		require.Len(t, upcoming, 1)
		assert.Equal(t, "therapy check-in", upcoming[0].Title)
	})

	t.Run("TransactionRollsBackOnError", func(t *testing.T) {
		userID := uuid.NewString()

		err := store.Transaction(ctx, func(tx *Store) error {
			if err := tx.SaveSession(ctx, &TherapySession{UserID: userID}); err != nil {
				return err
			}
			return errors.New("force rollback")
		})
		require.Error(t, err)

		sessions, err := store.ListSessions(ctx, userID, 10)
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})
}
