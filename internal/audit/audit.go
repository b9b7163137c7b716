// Package audit enregistre les actions sensibles dans la table Scylla audit_logs.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gocql/gocql"
)

const (
	ActionOrderCreate   = "order.create"
	ActionOrderUpdate   = "order.update"
	ActionOrderCancel   = "order.cancel"
	ActionOrderPaid     = "order.paid"
	ActionHistoryClear  = "order.history_clear"
	ActionPaymentIntent = "payment.intent_create"
	ActionReviewCreate  = "review.create"
)

const (
	ResourceOrder  = "order"
	ResourceReview = "review"
)

type Entry struct {
	ID         gocql.UUID `json:"id"`
	UserID     string     `json:"userId,omitempty"`
	UserEmail  string     `json:"userEmail,omitempty"`
	Action     string     `json:"action"`
	Resource   string     `json:"resource"`
	ResourceID string     `json:"resourceId,omitempty"`
	NewValue   any        `json:"newValue,omitempty"`
	IPAddress  string     `json:"ipAddress,omitempty"`
	UserAgent  string     `json:"userAgent,omitempty"`
	RequestID  string     `json:"requestId,omitempty"`
	Success    bool       `json:"success"`
	ErrorMsg   string     `json:"errorMsg,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Filter restreint la lecture du journal. Les champs vides sont ignorés.
type Filter struct {
	UserEmail  string
	Action     string
	ResourceID string
	Limit      int
}

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

type Reader interface {
	List(ctx context.Context, f Filter) ([]Entry, error)
}

type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

type ScyllaRecorder struct {
	session *gocql.Session
}

func NewScyllaRecorder(session *gocql.Session) *ScyllaRecorder {
	return &ScyllaRecorder{session: session}
}

const createTable = `
	CREATE TABLE IF NOT EXISTS audit_logs (
		id timeuuid PRIMARY KEY,
		user_id text,
		user_email text,
		action text,
		resource text,
		resource_id text,
		new_value text,
		ip_address text,
		user_agent text,
		request_id text,
		success boolean,
		error_msg text,
		timestamp timestamp
	)`

// EnsureSchema crée la table audit_logs si elle n'existe pas.
func (r *ScyllaRecorder) EnsureSchema(ctx context.Context) error {
	return r.session.Query(createTable).WithContext(ctx).Exec()
}

func (r *ScyllaRecorder) Record(ctx context.Context, e Entry) error {
	if e.ID == (gocql.UUID{}) {
		e.ID = gocql.TimeUUID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	var newValue string
	if e.NewValue != nil {
		if b, err := json.Marshal(e.NewValue); err == nil {
			newValue = string(b)
		}
	}

	err := r.session.Query(`
		INSERT INTO audit_logs (
			id, user_id, user_email, action, resource, resource_id,
			new_value, ip_address, user_agent, request_id, success,
			error_msg, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.UserEmail, e.Action, e.Resource, e.ResourceID,
		newValue, e.IPAddress, e.UserAgent, e.RequestID, e.Success,
		e.ErrorMsg, e.Timestamp,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insertion audit_logs: %w", err)
	}
	return nil
}

// listQuery construit la requête de lecture. Les filtres hors clé primaire exigent ALLOW FILTERING.
func listQuery(f Filter) (string, []any) {
	query := `SELECT id, user_id, user_email, action, resource, resource_id,
		new_value, ip_address, user_agent, request_id, success, error_msg, timestamp
		FROM audit_logs`

	var conds []string
	var args []any
	if f.UserEmail != "" {
		conds = append(conds, "user_email = ?")
		args = append(args, f.UserEmail)
	}
	if f.Action != "" {
		conds = append(conds, "action = ?")
		args = append(args, f.Action)
	}
	if f.ResourceID != "" {
		conds = append(conds, "resource_id = ?")
		args = append(args, f.ResourceID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if len(conds) > 0 {
		query += " ALLOW FILTERING"
	}
	return query, args
}

// List relit le journal, du plus récent au plus ancien.
func (r *ScyllaRecorder) List(ctx context.Context, f Filter) ([]Entry, error) {
	query, args := listQuery(f)
	iter := r.session.Query(query, args...).WithContext(ctx).Iter()

	entries := []Entry{}
	var (
		e        Entry
		newValue string
	)
	for iter.Scan(&e.ID, &e.UserID, &e.UserEmail, &e.Action, &e.Resource, &e.ResourceID,
		&newValue, &e.IPAddress, &e.UserAgent, &e.RequestID, &e.Success, &e.ErrorMsg, &e.Timestamp) {
		e.NewValue = nil
		if newValue != "" && json.Valid([]byte(newValue)) {
			e.NewValue = json.RawMessage(newValue)
		}
		entries = append(entries, e)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture audit_logs: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp.After(entries[j].Timestamp) })
	return entries, nil
}

// Noop est utilisé quand Scylla n'est pas configuré.
type Noop struct{}

func (Noop) Record(context.Context, Entry) error { return nil }

func (Noop) List(context.Context, Filter) ([]Entry, error) { return []Entry{}, nil }
