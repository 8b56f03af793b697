// Package client adalah klien REST untuk layanan antrian, dipakai oleh
// perintah loket dan papan.
package client

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

	adminModels "github.com/c14220110/poliklinik-antrian/internal/administrasi/models"
	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
)

// ErrUnauthorized dikembalikan untuk respons 401; token sesi sudah dihapus.
var ErrUnauthorized = errors.New("sesi berakhir, silakan login")

// APIError adalah respons non-2xx selain 401.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus melaporkan apakah err adalah APIError dengan status tertentu.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// TokenStore menyediakan token bearer dan menghapusnya saat server menolak.
type TokenStore interface {
	Token() string
	ClearToken() error
}

type Client struct {
	baseURL string
	tokens  TokenStore
	http    *http.Client
}

func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doRequest mengirim request ber-token dan membongkar envelope {status,message,data}.
func (c *Client) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.tokens != nil {
			if err := c.tokens.ClearToken(); err != nil {
				return errors.Join(ErrUnauthorized, err)
			}
		}
		return ErrUnauthorized
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("parse response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func withPoli(path string, poliID int64) string {
	if poliID <= 0 {
		return path
	}
	return path + "?poli_id=" + strconv.FormatInt(poliID, 10)
}

func (c *Client) Login(ctx context.Context, username, password string) (*adminModels.LoginResponse, error) {
	var out adminModels.LoginResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", adminModels.LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) IssueTicket(ctx context.Context, doctorID, patientID int64) (*models.TiketTerbit, error) {
	var out models.TiketTerbit
	err := c.doRequest(ctx, http.MethodPost, "/api/queue/ticket", models.TiketRequest{DoctorID: doctorID, PatientID: patientID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CallNext mengembalikan (nil, nil) bila antrian kosong. 404 lain (route
// salah, proxy) tetap dikembalikan sebagai APIError.
func (c *Client) CallNext(ctx context.Context, counterName string, poliID int64) (*models.HasilPanggilan, error) {
	var out models.HasilPanggilan
	err := c.doRequest(ctx, http.MethodPost, "/api/queues/call", models.PanggilRequest{CounterName: counterName, PoliID: poliID}, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound && apiErr.Message == models.PesanAntrianKosong {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Complete(ctx context.Context, ticketID int64) (*models.Antrian, error) {
	var out models.Antrian
	if err := c.doRequest(ctx, http.MethodPost, "/api/queues/complete", models.TiketIDRequest{TicketID: ticketID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Skip(ctx context.Context, ticketID int64) (*models.Antrian, error) {
	var out models.Antrian
	if err := c.doRequest(ctx, http.MethodPost, "/api/queues/skip", models.TiketIDRequest{TicketID: ticketID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecallSkipped(ctx context.Context, ticketID int64, counterName string) (*models.HasilPanggilan, error) {
	var out models.HasilPanggilan
	req := models.RecallSkippedRequest{TicketID: ticketID, CounterName: counterName}
	if err := c.doRequest(ctx, http.MethodPost, "/api/queues/recall-skipped", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Waiting(ctx context.Context, poliID int64) ([]models.Antrian, error) {
	var out []models.Antrian
	if err := c.doRequest(ctx, http.MethodGet, withPoli("/api/queues/waiting", poliID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Skipped(ctx context.Context, poliID int64) ([]models.Antrian, error) {
	var out []models.Antrian
	if err := c.doRequest(ctx, http.MethodGet, withPoli("/api/queues/skipped", poliID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Active mengembalikan tiket CALLED milik loket, nil jika loket kosong.
func (c *Client) Active(ctx context.Context, counterName string) (*models.Antrian, error) {
	var out *models.Antrian
	path := "/api/queues/active?counter_name=" + url.QueryEscape(counterName)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Board(ctx context.Context, poliID int64) (*models.PapanAntrian, error) {
	var out models.PapanAntrian
	if err := c.doRequest(ctx, http.MethodGet, withPoli("/api/queues/board", poliID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Counters(ctx context.Context) ([]adminModels.Loket, error) {
	var out []adminModels.Loket
	if err := c.doRequest(ctx, http.MethodGet, "/api/counters", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WebsocketURL menurunkan alamat /ws dari base URL (http→ws, https→wss).
func (c *Client) WebsocketURL(types ...string) string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	u += "/ws"
	if len(types) > 0 {
		u += "?types=" + url.QueryEscape(strings.Join(types, ","))
	}
	return u
}
