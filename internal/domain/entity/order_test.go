package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
)

func TestOrder_Transiciones(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		status    string
		lines     int
		canSubmit bool
		canCancel bool
		canClose  bool
	}{
		{entity.OrderStarted, 0, false, true, false},
		{entity.OrderStarted, 2, true, true, true},
		{entity.OrderSubmitted, 2, false, false, true},
		{entity.OrderCancelled, 1, false, false, false},
		{entity.OrderClosed, 1, false, false, false},
	}
	for _, tt := range tests {
		o := &entity.Order{Status: tt.status}
		assert.Equal(t, tt.canSubmit, o.CanSubmit(tt.lines), "submit desde %s con %d líneas", tt.status, tt.lines)
		assert.Equal(t, tt.canCancel, o.CanCancel(), "cancel desde %s", tt.status)
		assert.Equal(t, tt.canClose, o.CanClose(tt.lines), "close desde %s con %d líneas", tt.status, tt.lines)
	}

	o := &entity.Order{Status: entity.OrderStarted}
	o.Submit(now)
	assert.Equal(t, entity.OrderSubmitted, o.Status)
	assert.Equal(t, now, *o.SubmittedAt)
	assert.True(t, o.IsOpen())
	o.Close(now.Add(time.Hour))
	assert.Equal(t, entity.OrderClosed, o.Status)
	assert.False(t, o.IsOpen())
}

func TestOrder_Total(t *testing.T) {
	o := &entity.Order{Items: []*entity.OrderItem{
		{Subtotal: decimal.RequireFromString("9.00")},
		{Subtotal: decimal.RequireFromString("4.50")},
	}}
	assert.True(t, o.Total().Equal(decimal.RequireFromString("13.50")))
}

func TestTable_OcuparYLiberar(t *testing.T) {
	tb := &entity.Table{Status: entity.TableAvailable}
	assert.True(t, tb.AcceptsOrders())
	assert.True(t, tb.Occupy())
	assert.Equal(t, entity.TableUnavailable, tb.Status)
	assert.False(t, tb.AcceptsOrders())
	assert.False(t, tb.Occupy())
	assert.True(t, tb.Release())
	assert.Equal(t, entity.TableAvailable, tb.Status)
	assert.False(t, tb.Release())
}

func TestTable_ParaLlevarEInactiva(t *testing.T) {
	takeOut := &entity.Table{Status: entity.TableAvailable, IsTakeOut: true}
	assert.False(t, takeOut.Occupy())
	assert.True(t, takeOut.AcceptsOrders())
	assert.Equal(t, entity.TableAvailable, takeOut.Status)

	inactive := &entity.Table{Status: entity.TableInactive}
	assert.False(t, inactive.AcceptsOrders())
	assert.False(t, inactive.Release())
	assert.Equal(t, entity.TableInactive, inactive.Status)
}
