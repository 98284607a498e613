package payment

import (
	"strings"
	"time"
)

type Method string

const (
	MethodCard   Method = "card"
	MethodWallet Method = "wallet"
	MethodQR     Method = "qr"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCard, MethodWallet, MethodQR:
		return true
	}
	return false
}

// CardDetails are the four fields the card form collects.
type CardDetails struct {
	Number     string `json:"number"`
	HolderName string `json:"holderName"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

func (c CardDetails) complete() bool {
	for _, f := range []string{c.Number, c.HolderName, c.Expiry, c.CVV} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// Selection is the payment step of the checkout form.
type Selection struct {
	Method Method       `json:"method"`
	Card   *CardDetails `json:"card,omitempty"`
}

// QRPayment is the simulated bank QR code generated before a QR checkout.
type QRPayment struct {
	Reference string    `json:"reference"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}
