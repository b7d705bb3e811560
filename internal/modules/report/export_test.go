package report

import (
	"bytes"
	"testing"
	"time"

	"travelagency/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBookings(t *testing.T) {
	paid := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	bookings := []domain.Booking{
		{
			BookingCode:   "BK1",
			JumlahPeserta: 2,
			TotalAmount:   1000000,
			Status:        domain.BookingConfirmed,
			PaymentStatus: domain.PaymentPaid,
			CustomerInfo:  domain.CustomerInfo{Name: "Siti", Email: "siti@example.com"},
			PackageInfo:   domain.PackageSnapshot{Name: "Bali Escape", Destination: "Bali"},
			Payment:       domain.PaymentInfo{OrderID: "TRX-BK1-1-abcdef", PaymentDate: &paid},
		},
		{
			BookingCode:   "BK2",
			JumlahPeserta: 1,
			TotalAmount:   500000,
			Status:        domain.BookingCancelled,
			PaymentStatus: domain.PaymentExpired,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBookings(&buf, bookings, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetBookings, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetBookings)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Booking ID", rows[0][0])
	assert.Equal(t, "BK1", rows[1][0])
	assert.Equal(t, "1000000", rows[1][10])
	assert.Equal(t, "confirmed", rows[1][11])
	assert.Equal(t, "2025-03-01T09:30:00Z", rows[1][16])
	assert.Equal(t, "expired", rows[2][12])

	revenue, err := f.GetCellValue(SheetSummary, "B10")
	require.NoError(t, err)
	assert.Equal(t, "1000000", revenue)
}
