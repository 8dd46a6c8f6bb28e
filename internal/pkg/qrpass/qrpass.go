package qrpass

import (
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

var ErrEmptyPayload = errors.New("empty QR payload")

// Encoder renders QR tokens as square PNG images.
type Encoder struct {
	size int
}

func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = DefaultSize
	}

	return &Encoder{
		size: size,
	}
}

func (e *Encoder) Encode(payload string) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, e.size)
	if err != nil {
		return nil, fmt.Errorf("qrcode.Encode -> %w", err)
	}

	return png, nil
}
