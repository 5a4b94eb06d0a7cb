package tests

import (
	"context"
	"errors"
	"testing"

	"quickbite/internal/analytics"
	"quickbite/internal/domain"
	"quickbite/internal/mocks"

	"github.com/stretchr/testify/mock"
)

func TestConsumer_Process(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		inputEvent     domain.OrderEvent
		setupMockStore func(*mocks.StoreInterface)
	}{
		{
			name: "order_created",
			inputEvent: domain.OrderEvent{
				Type:       domain.EventOrderCreated,
				OrderID:    42,
				ProductIDs: []int{1, 2},
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordOrderCreated", ctx, mock.Anything).Return(nil)
			},
		},
		{
			name: "status_changed",
			inputEvent: domain.OrderEvent{
				Type:    domain.EventStatusChanged,
				OrderID: 42,
				Status:  domain.StatusAccepted,
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordStatusChange", ctx, mock.Anything).Return(nil)
			},
		},
		{
			name: "store error is logged not fatal",
			inputEvent: domain.OrderEvent{
				Type:    domain.EventOrderCreated,
				OrderID: 42,
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordOrderCreated", ctx, mock.Anything).
					Return(errors.New("redis error"))
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := &analytics.Consumer{Store: mockStore}
			consumer.Process(ctx, testCase.inputEvent)
		})
	}
}

func TestConsumer_UnknownEventType(t *testing.T) {
	mockStore := mocks.NewStoreInterface(t)
	consumer := &analytics.Consumer{Store: mockStore}

	consumer.Process(context.Background(), domain.OrderEvent{Type: "unknown_type"})
	mockStore.AssertNotCalled(t, "RecordOrderCreated")
	mockStore.AssertNotCalled(t, "RecordStatusChange")
}
