package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCronFixture(t *testing.T) (*fixture, *fakeTokens, *CronService) {
	t.Helper()
	room := testRoom("101", 2000)
	f := newFixture(t, "2025-03-20", room)
	tokens := &fakeTokens{tokens: map[string]*models.RefreshToken{}}
	logger := quietLogger()
	audit := NewAuditService(f.audit, true, f.clock, logger)
	auth := NewAuthService(&fakeUsers{users: map[uuid.UUID]*models.User{}, lastLogin: map[uuid.UUID]time.Time{}},
		tokens, nil, audit, f.clock, logger)
	cron := NewCronService(f.invoiceSvc, f.rooms, audit, auth, 90, time.UTC, f.clock, logger)
	return f, tokens, cron
}

func TestCronService_RunJob(t *testing.T) {
	ctx := context.Background()
	f, tokens, cron := newCronFixture(t)

	var room *models.Room
	for _, r := range f.rooms.rooms {
		room = r
	}
	res := seedReservation(t, f, room, "2025-03-01", "2025-03-03", models.ReservationStatusCheckedOut)
	lateInvoice := &models.Invoice{
		ReservationID: res.ID,
		IssueDate:     mustDay(t, "2025-03-03"),
		DueDate:       mustDay(t, "2025-03-10"),
		Status:        models.InvoiceStatusPending,
		Items:         []models.InvoiceItem{models.NewInvoiceItem(models.InvoiceItemRoom, "Room 101", 2, 2000)},
	}
	require.NoError(t, f.invoices.Create(ctx, lateInvoice))

	result, err := cron.RunJob(JobOverdueInvoices)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Affected)
	assert.True(t, result.Manual)
	assert.Empty(t, result.Error)

	inv, err := f.invoices.GetByID(ctx, lateInvoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusOverdue, inv.Status)

	require.NoError(t, tokens.Store(ctx, uuid.New(), "stale", "", "", mustDay(t, "2025-03-01")))
	require.NoError(t, tokens.Store(ctx, uuid.New(), "fresh", "", "", mustDay(t, "2025-04-01")))
	result, err = cron.RunJob(JobTokenCleanup)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Affected)
	assert.Len(t, tokens.tokens, 1)
}

func TestCronService_UnknownJob(t *testing.T) {
	_, _, cron := newCronFixture(t)
	_, err := cron.RunJob("reindex")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestCronService_Status(t *testing.T) {
	_, _, cron := newCronFixture(t)

	status := cron.GetJobStatus()
	assert.Equal(t, false, status["running"])
	assert.Equal(t, 4, status["job_count"])

	_, err := cron.RunJob(JobRoomStatus)
	require.NoError(t, err)

	require.NoError(t, cron.Start())
	defer cron.Stop()

	status = cron.GetJobStatus()
	assert.Equal(t, true, status["running"])
	jobs := status["jobs"].([]map[string]interface{})
	require.Len(t, jobs, 4)
	for _, j := range jobs {
		assert.Contains(t, j, "next_run")
		if j["name"] == JobRoomStatus {
			assert.Contains(t, j, "last_result")
		}
	}
}

func TestAuditService_DisabledIsNoop(t *testing.T) {
	store := &fakeAudit{}
	svc := NewAuditService(store, false, clock.NewFixed(time.Now()), quietLogger())
	svc.Record(context.Background(), testActor, AuditEvent{Action: AuditRoomDelete})
	assert.Empty(t, store.entries)

	var nilSvc *AuditService
	assert.NotPanics(t, func() {
		nilSvc.Record(context.Background(), testActor, AuditEvent{Action: AuditRoomDelete})
	})
}

func TestAuditService_RecordAddsActorDetails(t *testing.T) {
	store := &fakeAudit{}
	svc := NewAuditService(store, true, clock.NewFixed(time.Now()), quietLogger())
	actor := testActor
	actor.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	svc.Record(context.Background(), actor, AuditEvent{Action: AuditStaffDelete, EntityType: "staff"})
	require.Len(t, store.entries, 1)
	entry := store.entries[0]
	assert.Equal(t, testActor.UserID, *entry.UserID)
	assert.Equal(t, "10.0.0.8", entry.IPAddress)
	assert.Equal(t, testActor.Email, entry.Details["actor_email"])
	assert.Contains(t, entry.Details, "device_info")
}
