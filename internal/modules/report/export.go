// Package report renders booking exports for the back office.
package report

import (
	"fmt"
	"io"
	"time"

	"travelagency/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	SheetBookings = "Bookings"
	SheetSummary  = "Summary"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var bookingHeaders = []string{
	"Booking ID", "Created", "Customer", "Email", "Phone", "Package", "Destination",
	"Start", "End", "Participants", "Total (IDR)", "Status", "Payment", "Order ID",
	"Transaction", "Method", "Paid At",
}

// WriteBookings writes an xlsx workbook with one row per booking and a per-status summary.
func WriteBookings(w io.Writer, bookings []domain.Booking, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetBookings)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, h := range bookingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetBookings, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(bookingHeaders), 1)
	if err := f.SetCellStyle(SheetBookings, "A1", last, header); err != nil {
		return err
	}

	for i, b := range bookings {
		paidAt := ""
		if b.Payment.PaymentDate != nil {
			paidAt = b.Payment.PaymentDate.UTC().Format(time.RFC3339)
		}
		row := []interface{}{
			b.BookingCode,
			b.CreatedAt.UTC().Format(time.RFC3339),
			b.CustomerInfo.Name,
			b.CustomerInfo.Email,
			b.CustomerInfo.Phone,
			b.PackageInfo.Name,
			b.PackageInfo.Destination,
			b.Schedule.StartDate,
			b.Schedule.EndDate,
			b.JumlahPeserta,
			b.TotalAmount,
			string(b.Status),
			string(b.PaymentStatus),
			b.Payment.OrderID,
			b.Payment.TransactionStatus,
			b.Payment.Method,
			paidAt,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetBookings, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(SheetBookings, "A", "A", 22)
	_ = f.SetColWidth(SheetBookings, "B", "Q", 18)
	if err := f.SetPanes(SheetBookings, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	if err := writeSummary(f, bookings, generatedAt, header); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func writeSummary(f *excelize.File, bookings []domain.Booking, generatedAt time.Time, header int) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	counts := map[domain.BookingStatus]int{}
	revenue := int64(0)
	for _, b := range bookings {
		counts[b.Status]++
		if b.PaymentStatus == domain.PaymentPaid {
			revenue += b.TotalAmount
		}
	}

	_ = f.SetCellValue(SheetSummary, "A1", "Generated at")
	_ = f.SetCellValue(SheetSummary, "B1", generatedAt.UTC().Format(time.RFC3339))
	_ = f.SetCellValue(SheetSummary, "A3", "Status")
	_ = f.SetCellValue(SheetSummary, "B3", "Bookings")
	_ = f.SetCellStyle(SheetSummary, "A3", "B3", header)

	row := 4
	for _, st := range []domain.BookingStatus{
		domain.BookingPending,
		domain.BookingPendingVerification,
		domain.BookingConfirmed,
		domain.BookingCancelled,
		domain.BookingCompleted,
	} {
		_ = f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", row), &[]interface{}{string(st), counts[st]})
		row++
	}
	_ = f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", row+1), &[]interface{}{"Paid revenue (IDR)", revenue})
	return f.SetColWidth(SheetSummary, "A", "A", 24)
}
