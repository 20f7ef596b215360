// Package ledger defines the external ledger collaborator that receipts
// every bid. The repository will not commit a bid without a receipt.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/logging"
)

// Recorder records bids on an external ledger and verifies receipts.
// A real ledger integration replaces both methods without touching the
// auction service.
type Recorder interface {
	// Record submits a bid and returns an opaque receipt. An error or an
	// empty receipt blocks the bid from being persisted.
	Record(ctx context.Context, bidderID, vehicleID int64, amount float64, placedAt time.Time) (string, error)

	// Verify reports whether a receipt is valid.
	Verify(receipt string) bool
}

// HashRecorder is the reference stub: instead of dialing the configured
// endpoint it derives the receipt as a SHA-256 digest of the bid data plus
// a random nonce. Verify accepts any non-empty receipt.
type HashRecorder struct {
	endpoint string
	timeout  time.Duration
	logger   logging.Logger
}

func NewHashRecorder(endpoint string, timeout time.Duration, logger logging.Logger) *HashRecorder {
	logger.Info(context.Background(), "ledger recorder initialized", "endpoint", endpoint)
	return &HashRecorder{endpoint: endpoint, timeout: timeout, logger: logger}
}

func (r *HashRecorder) Record(ctx context.Context, bidderID, vehicleID int64, amount float64, placedAt time.Time) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload := strings.Join([]string{
		strconv.FormatInt(bidderID, 10),
		strconv.FormatInt(vehicleID, 10),
		strconv.FormatFloat(amount, 'f', 2, 64),
		strconv.FormatInt(placedAt.UnixMilli(), 10),
		uuid.NewString(),
	}, ":")

	sum := sha256.Sum256([]byte(payload))
	receipt := base64.StdEncoding.EncodeToString(sum[:])

	r.logger.Info(ctx, "recorded bid on ledger", "vehicle_id", vehicleID, "receipt", receipt)
	return receipt, nil
}

func (r *HashRecorder) Verify(receipt string) bool {
	return receipt != ""
}
