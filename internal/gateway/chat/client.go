// Package chat delivers dispatch offers to couriers through the Telegram Bot API.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

// ErrNoChat is returned when the courier has no chat to deliver to.
var ErrNoChat = errors.New("chat: courier has no chat id")

// MaxCallbackData is the Telegram limit for inline button payloads, in bytes.
const MaxCallbackData = 64

// Client sends offer messages with accept and decline buttons.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient returns nil when token is empty so callers can run without a bot.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: baseURL + "/bot" + token + "/sendMessage",
		http:     &http.Client{Timeout: timeout},
	}
}

type button struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type replyMarkup struct {
	InlineKeyboard [][]button `json:"inline_keyboard"`
}

type sendMessage struct {
	ChatID      int64       `json:"chat_id"`
	Text        string      `json:"text"`
	ReplyMarkup replyMarkup `json:"reply_markup"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Offer sends the offer to the candidate courier chat.
func (c *Client) Offer(ctx context.Context, o domain.Offer) error {
	chatID := o.Candidate.Courier.ChatID
	if chatID == 0 {
		return ErrNoChat
	}

	accept := CallbackData(domain.DecisionAccept, o)
	decline := CallbackData(domain.DecisionDecline, o)
	for _, data := range []string{accept, decline} {
		if len(data) > MaxCallbackData {
			return fmt.Errorf("chat: callback data %q is %d bytes, limit %d: %w",
				data, len(data), MaxCallbackData, apperr.ErrNotificationDelivery)
		}
	}

	raw, err := json.Marshal(sendMessage{
		ChatID: chatID,
		Text:   OfferText(o),
		ReplyMarkup: replyMarkup{InlineKeyboard: [][]button{{
			{Text: "Qabul qilish ✅", CallbackData: accept},
			{Text: "Rad etish ❌", CallbackData: decline},
		}}},
	})
	if err != nil {
		return fmt.Errorf("chat: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("chat: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// the url carries the bot token
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return fmt.Errorf("chat: send: %w", uerr.Err)
		}
		return fmt.Errorf("chat: send: %w", err)
	}
	defer resp.Body.Close()

	var body apiResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
	if resp.StatusCode != http.StatusOK || !body.OK {
		return fmt.Errorf("chat: status %d: %s", resp.StatusCode, body.Description)
	}
	return nil
}

// CallbackData encodes a button payload as "<decision>:<orderId>:<customerId>".
func CallbackData(kind domain.DecisionKind, o domain.Offer) string {
	return string(kind) + ":" + o.Order.ID + ":" + o.Customer.ID
}

// OfferText renders the message shown to the courier.
func OfferText(o domain.Offer) string {
	var b strings.Builder
	b.WriteString("Zakaz keldi! 🛒\n")

	name := o.Customer.Name
	if name == "" {
		name = "Nomalum"
	}
	fmt.Fprintf(&b, "Buyurtma bergan: %s\n", name)
	if o.Customer.Phone != "" {
		fmt.Fprintf(&b, "Telefon: %s\n", o.Customer.Phone)
	}
	fmt.Fprintf(&b, "Mahsulot: %s, %s\n", o.Order.Product.Name, strconv.FormatFloat(o.Order.Product.Quantity, 'f', -1, 64))

	address := o.Customer.Address
	if address == "" && o.Customer.Location != nil {
		address = fmt.Sprintf("%.6f, %.6f", o.Customer.Location.Lat, o.Customer.Location.Lon)
	}
	if address != "" {
		fmt.Fprintf(&b, "Manzil: %s\n", address)
	}
	fmt.Fprintf(&b, "Masofa: %.2f km", o.Candidate.DistanceMeters/1000)
	if u := o.MapsURL(); u != "" {
		fmt.Fprintf(&b, "\n%s", u)
	}
	return b.String()
}
