package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"advance/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func TestKafkaSubscriber_Handle(t *testing.T) {
	event := NewEvent(DepositApproved, models.Deposit{ID: 5, TransactionReference: "DEP20240315ABCDEF"}, 2, "")

	tests := []struct {
		name      string
		setupMock func(*MockWriter)
		wantErr   bool
	}{
		{
			name: "publishes keyed by reference",
			setupMock: func(w *MockWriter) {
				w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
					if len(msgs) != 1 || string(msgs[0].Key) != "DEP20240315ABCDEF" {
						return false
					}
					var decoded Event
					return json.Unmarshal(msgs[0].Value, &decoded) == nil && decoded.ID == event.ID
				})).Return(nil)
			},
		},
		{
			name: "writer failure is returned",
			setupMock: func(w *MockWriter) {
				w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := new(MockWriter)
			tt.setupMock(w)

			err := NewKafkaSubscriber(w, nil).Handle(context.Background(), event)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), event.ID)
			} else {
				require.NoError(t, err)
			}
			w.AssertExpectations(t)
		})
	}
}
