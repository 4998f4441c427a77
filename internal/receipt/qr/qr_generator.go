package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"

	"ms-restaurant/internal/billing"
	"ms-restaurant/internal/models"

	"github.com/skip2/go-qrcode"
)

// Payload is what a receipt QR code carries once decrypted.
type Payload struct {
	Number  int    `json:"number"`
	TableID int    `json:"table_id"`
	Items   int    `json:"items"`
	Total   string `json:"total"`
	Issued  int64  `json:"issued"`
}

type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret))
	return &QRGenerator{secret: hashed[:]}
}

func PayloadFor(r models.Receipt) Payload {
	return Payload{
		Number:  r.Number,
		TableID: r.TableID,
		Items:   len(r.Lines),
		Total:   billing.Money(r.Bill.Total),
		Issued:  r.IssuedAt.Unix(),
	}
}

func PayloadForRecord(rec models.ReceiptRecord) Payload {
	return Payload{
		Number:  rec.Number,
		TableID: rec.TableID,
		Items:   rec.Items,
		Total:   rec.Total,
		Issued:  rec.IssuedAt.Unix(),
	}
}

// GenerateEncryptedQR returns a PNG QR code holding the encrypted receipt
// payload.
func (q *QRGenerator) GenerateEncryptedQR(r models.Receipt) ([]byte, error) {
	return q.EncodePNG(PayloadFor(r))
}

func (q *QRGenerator) EncodePNG(p Payload) ([]byte, error) {
	token, err := q.Token(p)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(token, qrcode.Medium, 256)
}

// Token encrypts the payload into the URL-safe string the QR code encodes.
func (q *QRGenerator) Token(p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return encryptAES(data, q.secret)
}

// Decode reverses Token.
func (q *QRGenerator) Decode(token string) (Payload, error) {
	var p Payload
	data, err := decryptAES(token, q.secret)
	if err != nil {
		return p, err
	}
	err = json.Unmarshal(data, &p)
	return p, err
}

func encryptAES(data []byte, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, data, nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

func decryptAES(token string, key []byte) ([]byte, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(raw) < gcm.NonceSize() {
		return nil, errors.New("qr token too short")
	}
	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	return gcm.Open(nil, nonce, sealed, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
