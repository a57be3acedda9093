package notify

import (
	"context"
	"testing"

	"github.com/estate/backend/internal/domain/estate"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureSink struct {
	sent []Notification
}

func (s *captureSink) Send(_ context.Context, n Notification) error {
	s.sent = append(s.sent, n)
	return nil
}

func newNotifyPlot(t *testing.T) *estate.Plot {
	t.Helper()
	size, err := valueobject.NewPlotSize(decimal.NewFromInt(5), valueobject.Marla())
	require.NoError(t, err)
	plot, err := estate.NewPlot(
		uuid.New(), "B-204", "B", size,
		estate.PlotCategoryGeneral, estate.PlotTypeResidential,
		valueobject.NewMoneyPKRFromFloat(750000),
	)
	require.NoError(t, err)
	return plot
}

func TestOwnershipChangedHandler(t *testing.T) {
	t.Run("subscribes to resell and transfer events", func(t *testing.T) {
		handler := NewOwnershipChangedHandler(&captureSink{}, zap.NewNop())
		assert.ElementsMatch(t,
			[]string{estate.EventTypePlotResold, estate.EventTypePlotTransferred},
			handler.EventTypes(),
		)
	})

	t.Run("notifies the buyer on a resell", func(t *testing.T) {
		sink := &captureSink{}
		handler := NewOwnershipChangedHandler(sink, zap.NewNop())

		plot := newNotifyPlot(t)
		previous := uuid.New()
		buyer := uuid.New()
		event := estate.NewPlotResoldEvent(plot, previous, buyer)

		err := handler.Handle(context.Background(), event)
		require.NoError(t, err)

		require.Len(t, sink.sent, 1)
		assert.Equal(t, "ownership.resold", sink.sent[0].Topic)
		assert.Equal(t, buyer, sink.sent[0].CustomerID)
		assert.Contains(t, sink.sent[0].Subject, "B-204")
	})

	t.Run("notifies the new owner on a transfer", func(t *testing.T) {
		sink := &captureSink{}
		handler := NewOwnershipChangedHandler(sink, zap.NewNop())

		plot := newNotifyPlot(t)
		newOwner := uuid.New()
		event := estate.NewPlotTransferredEvent(plot, newOwner)

		err := handler.Handle(context.Background(), event)
		require.NoError(t, err)

		require.Len(t, sink.sent, 1)
		assert.Equal(t, "ownership.transferred", sink.sent[0].Topic)
		assert.Equal(t, newOwner, sink.sent[0].CustomerID)
		assert.Contains(t, sink.sent[0].Subject, "B-204")
	})

	t.Run("rejects events it is not subscribed to", func(t *testing.T) {
		sink := &captureSink{}
		handler := NewOwnershipChangedHandler(sink, zap.NewNop())

		plot := newNotifyPlot(t)
		event := estate.NewPlotRegisteredEvent(plot)

		err := handler.Handle(context.Background(), event)
		require.Error(t, err)
		assert.Empty(t, sink.sent)
	})
}
