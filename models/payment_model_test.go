package models

import (
	"testing"
	"time"

	"github.com/anjiri1684/course_analytics/analytics"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayment_Record(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	method := "bKash"
	mobile := "01700000000"
	created := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	p := Payment{
		ID:            uuid.New(),
		TransactionID: "SSL-1",
		UserID:        &userID,
		CourseID:      &courseID,
		Amount:        4500,
		Status:        "completed",
		PaymentMethod: &method,
		User:          &User{ID: userID, FullName: "Rahim", Email: "rahim@example.com", MobileNumber: &mobile},
		Course:        &Course{ID: courseID, Title: "Web Development", CourseFee: 4500},
		CreatedAt:     created,
	}

	rec := p.Record()

	assert.Equal(t, analytics.ID(p.ID.String()), rec.ID)
	assert.Equal(t, analytics.Amount(4500), rec.Amount)
	assert.Equal(t, "bKash", rec.PaymentMethod)
	assert.Empty(t, rec.CardType)
	require.NotNil(t, rec.User)
	assert.Equal(t, "01700000000", rec.User.MobileNumber)
	require.NotNil(t, rec.Course)
	assert.Equal(t, "Web Development", rec.Course.Title)

	at, ok := analytics.ParseCreatedAt(rec.CreatedAt, time.UTC)
	require.True(t, ok)
	assert.True(t, created.Equal(at))
	assert.True(t, analytics.IsCompleted(rec))
}

func TestPayment_RecordOrphaned(t *testing.T) {
	userID := uuid.New()
	rec := Payment{ID: uuid.New(), UserID: &userID, Status: "completed"}.Record()

	require.NotNil(t, rec.User, "a dangling user id still identifies the student")
	assert.Equal(t, analytics.ID(userID.String()), rec.User.ID)
	assert.Nil(t, rec.Course)
}
