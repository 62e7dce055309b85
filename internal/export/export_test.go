package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXSinkWritesReport(t *testing.T) {
	statuses := []models.ProductStatus{
		{
			ProductName:        "Merlot",
			Type:               enums.ConditionDamaged,
			Quantity:           2,
			Status:             enums.ReviewStatusRejected,
			ReportedByUsername: "ana",
			ReportedAt:         time.Date(2026, 4, 2, 23, 30, 0, 0, time.UTC),
			ReviewNotes:        "photo unclear",
		},
		{
			ProductName:        "Gin",
			Type:               enums.ConditionExpired,
			Quantity:           1,
			Status:             enums.ReviewStatusPending,
			ReportedByUsername: "ben",
			ReportedAt:         time.Date(2026, 4, 3, 8, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	sink, err := NewXLSXSink(&buf)
	require.NoError(t, err)
	require.NoError(t, sink.WriteProductStatuses(context.Background(), RowsFromStatuses(statuses)))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Product", "Type", "Quantity", "Status", "Reported By", "Date", "Review Notes"}, rows[0])
	assert.Equal(t, []string{"Merlot", "damaged", "2", "rejected", "ana", "2026-04-02", "photo unclear"}, rows[1])
	assert.Equal(t, "Gin", rows[2][0])
	assert.Equal(t, "2026-04-03", rows[2][5])
}

func TestNewXLSXSinkRequiresWriter(t *testing.T) {
	_, err := NewXLSXSink(nil)
	assert.Error(t, err)
}

func TestXLSXSinkHonoursCancelledContext(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewXLSXSink(&buf)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, sink.WriteProductStatuses(ctx, nil))
	assert.Zero(t, buf.Len())
}
