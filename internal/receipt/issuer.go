package receipt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ms-restaurant/internal/billing"
	"ms-restaurant/internal/logger"
	"ms-restaurant/internal/models"
	"ms-restaurant/internal/receipt/qr"
	"ms-restaurant/internal/utils"
)

var ErrNotPaid = errors.New("receipt requires a confirmed payment")

const defaultAttempts = 5

type NumberReserver interface {
	Reserve(ctx context.Context, number int) (bool, error)
}

// NumberReleaser is implemented by reservers that can hand a number back.
type NumberReleaser interface {
	Release(ctx context.Context, number int) error
}

type Archive interface {
	CreateReceipt(ctx context.Context, record models.ReceiptRecord) error
}

// Issued describes a receipt that has been written out.
type Issued struct {
	Receipt models.Receipt
	Path    string
	QRPath  string
}

// Issuer numbers, writes and archives receipts. Numbers are random draws
// from [1000, 9999]; reservers, when configured, are asked to veto numbers
// already in use. Once Attempts draws have all been vetoed the last draw
// is used anyway and an older file with that name is overwritten.
type Issuer struct {
	Dir       string
	Calc      billing.Calculator
	Reservers []NumberReserver
	Archive   Archive
	QR        *qr.QRGenerator
	Attempts  int
	Logger    *logger.Logger

	Draw func() int
	Now  func() time.Time
}

func NewIssuer(dir string, calc billing.Calculator, log *logger.Logger) *Issuer {
	return &Issuer{
		Dir:      dir,
		Calc:     calc,
		Attempts: defaultAttempts,
		Logger:   log,
		Draw:     utils.GenerateTransactionNumber,
		Now:      time.Now,
	}
}

func (i *Issuer) Issue(ctx context.Context, payment models.Payment) (Issued, error) {
	if !payment.Paid {
		return Issued{}, fmt.Errorf("%w: table %d", ErrNotPaid, payment.Order.TableID)
	}

	number := i.pickNumber(ctx)
	r := Build(number, payment, i.Calc, i.Now().UTC())

	if err := os.MkdirAll(i.Dir, 0755); err != nil {
		i.release(ctx, number)
		return Issued{}, fmt.Errorf("failed to create receipt directory: %w", err)
	}

	issued := Issued{Receipt: r, Path: filepath.Join(i.Dir, FileName(number))}
	if err := os.WriteFile(issued.Path, []byte(Text(r)), 0644); err != nil {
		i.release(ctx, number)
		return Issued{}, fmt.Errorf("failed to write receipt %s: %w", issued.Path, err)
	}
	i.Logger.LogReceipt("WRITE", number, fmt.Sprintf("table %d receipt saved to %s", r.TableID, issued.Path))

	if i.QR != nil {
		if path, err := i.writeQR(r); err != nil {
			i.Logger.Warn("RECEIPT", fmt.Sprintf("QR code for receipt #%d not written: %v", number, err))
		} else {
			issued.QRPath = path
		}
	}

	if i.Archive != nil {
		if err := i.Archive.CreateReceipt(ctx, Record(r, FileName(number))); err != nil {
			i.Logger.Error("DATABASE", fmt.Sprintf("Failed to archive receipt #%d: %v", number, err))
		} else {
			i.Logger.LogDatabase("INSERT", "receipts", fmt.Sprintf("receipt #%d archived", number))
		}
	}

	return issued, nil
}

func (i *Issuer) writeQR(r models.Receipt) (string, error) {
	png, err := i.QR.GenerateEncryptedQR(r)
	if err != nil {
		return "", err
	}
	path := filepath.Join(i.Dir, QRFileName(r.Number))
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (i *Issuer) pickNumber(ctx context.Context) int {
	attempts := i.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var number int
	for a := 0; a < attempts; a++ {
		number = i.Draw()
		if i.available(ctx, number) {
			return number
		}
	}

	i.Logger.Warn("RECEIPT", fmt.Sprintf("No free receipt number after %d draws, reusing #%d", attempts, number))
	return number
}

func (i *Issuer) available(ctx context.Context, number int) bool {
	for _, r := range i.Reservers {
		ok, err := r.Reserve(ctx, number)
		if err != nil {
			// an unreachable reserver cannot veto
			i.Logger.Warn("RECEIPT", fmt.Sprintf("Receipt number check failed for #%d: %v", number, err))
			continue
		}
		if !ok {
			return false
		}
	}
	return true
}

func (i *Issuer) release(ctx context.Context, number int) {
	for _, r := range i.Reservers {
		releaser, ok := r.(NumberReleaser)
		if !ok {
			continue
		}
		if err := releaser.Release(ctx, number); err != nil {
			i.Logger.Warn("RECEIPT", fmt.Sprintf("Failed to release receipt number #%d: %v", number, err))
		}
	}
}
