package service

import (
	"context"
	"testing"
	"time"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditTrailOfMutations(t *testing.T) {
	db := setupTestDB(t)
	stateSvc := newTestStateService(db)
	auditSvc := NewAuditService(db)

	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	recordInitialState(t, stateSvc, rent.ID, utcDate(2024, time.January, 1))

	logs, total, err := auditSvc.GetAuditLogs(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ActionRecordState, logs[0].Action)
	assert.Equal(t, "System", logs[0].Username)
}

func TestAuditRecorderAttributesActor(t *testing.T) {
	db := setupTestDB(t)
	userSvc := NewUserService(repository.NewUserRepository(db))
	stateSvc := newTestStateService(db)
	auditSvc := NewAuditService(db)

	account, err := userSvc.CreateUser(context.Background(), CreateUserRequest{
		Username: "anna",
		Email:    "anna@example.com",
		Password: "secret123",
		Role:     model.RoleLandlord,
	})
	require.NoError(t, err)

	rent := seedFullTenancy(t, db, model.UtilityFlags{})
	_, err = stateSvc.RecordState(context.Background(), RecordStateRequest{
		RentID:     rent.ID,
		ColdWater:  "100",
		Energy:     "5000",
		IsInitial:  true,
		RecordedAt: "2024-01-01T10:00:00Z",
	}, &account.ID)
	require.NoError(t, err)

	logs, _, err := auditSvc.GetAuditLogs(context.Background(), 1, 20)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, "anna", logs[0].Username)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, account.ID, *logs[0].UserID)
}

func TestAuditRecorderNilSafe(t *testing.T) {
	var recorder *AuditRecorder
	// Must not panic when audit logging is not wired.
	recorder.Record(context.Background(), nil, model.ActionRecordState, "1", "rent 1 seq 1", nil)
}
