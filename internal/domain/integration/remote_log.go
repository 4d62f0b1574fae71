package integration

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
)

// LogAction is the outbound API action a log entry records
type LogAction string

const (
	LogActionCreate LogAction = "CREATE"
	LogActionUpdate LogAction = "UPDATE"
	LogActionDelete LogAction = "DELETE"
)

// LogStatus is the outcome of one outbound API action
type LogStatus string

const (
	LogStatusSuccess LogStatus = "SUCCESS"
	LogStatusFailed  LogStatus = "FAILED"
)

// RemoteLog records one outbound API action against a channel. Every log
// entry carries an identifier naming the sub-operation it belongs to, and a
// fixing identifier naming the sub-operation whose later success resolves
// this entry's failure. For most operations the two are equal; they differ
// when a failure in one step (say, assigning an image) is fixed by re-running
// a different step (re-syncing the whole product).
type RemoteLog struct {
	shared.BaseEntity
	TenantID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	SalesChannelID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	RemoteProductID  *uuid.UUID `gorm:"type:uuid;index"`
	Action           LogAction  `gorm:"type:varchar(10);not null"`
	Status           LogStatus  `gorm:"type:varchar(10);not null;index"`
	Identifier       string     `gorm:"type:varchar(255);not null;index"`
	FixingIdentifier string     `gorm:"type:varchar(255);not null"`
	Payload          string     `gorm:"type:jsonb"`
	Response         string     `gorm:"type:text"`
	ErrorMessage     string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RemoteLog) TableName() string {
	return "remote_logs"
}

// NewRemoteLog records a successful action
func NewRemoteLog(tenantID, channelID uuid.UUID, action LogAction, identifier string) *RemoteLog {
	return &RemoteLog{
		BaseEntity:       shared.NewBaseEntity(),
		TenantID:         tenantID,
		SalesChannelID:   channelID,
		Action:           action,
		Status:           LogStatusSuccess,
		Identifier:       identifier,
		FixingIdentifier: identifier,
	}
}

// NewFailedRemoteLog records a failed action
func NewFailedRemoteLog(tenantID, channelID uuid.UUID, action LogAction, identifier string, errMsg string) *RemoteLog {
	log := NewRemoteLog(tenantID, channelID, action, identifier)
	log.Status = LogStatusFailed
	log.ErrorMessage = errMsg
	return log
}

// ForRemoteProduct attaches the log entry to a product mirror
func (l *RemoteLog) ForRemoteProduct(remoteProductID uuid.UUID) *RemoteLog {
	l.RemoteProductID = &remoteProductID
	return l
}

// WithFixingIdentifier names a different sub-operation whose success
// resolves this entry
func (l *RemoteLog) WithFixingIdentifier(identifier string) *RemoteLog {
	l.FixingIdentifier = identifier
	return l
}

// WithPayload attaches the serialized request body
func (l *RemoteLog) WithPayload(payload string) *RemoteLog {
	l.Payload = payload
	return l
}

// WithResponse attaches the raw channel response
func (l *RemoteLog) WithResponse(response string) *RemoteLog {
	l.Response = response
	return l
}

// IsSuccess reports whether the action succeeded
func (l *RemoteLog) IsSuccess() bool {
	return l.Status == LogStatusSuccess
}

// UnresolvedErrors computes which failures in a log stream are still open.
// For each identifier only the latest entry counts. A latest-failed entry is
// resolved when some later entry with identifier equal to its fixing
// identifier succeeded. The returned slice holds the still-open failures,
// oldest first.
func UnresolvedErrors(logs []RemoteLog) []RemoteLog {
	sorted := make([]RemoteLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	latest := make(map[string]RemoteLog)
	lastSuccess := make(map[string]time.Time)
	for _, log := range sorted {
		latest[log.Identifier] = log
		if log.IsSuccess() {
			if ts, ok := lastSuccess[log.Identifier]; !ok || log.CreatedAt.After(ts) {
				lastSuccess[log.Identifier] = log.CreatedAt
			}
		}
	}

	var open []RemoteLog
	for _, log := range latest {
		if log.IsSuccess() {
			continue
		}
		if ts, ok := lastSuccess[log.FixingIdentifier]; ok && ts.After(log.CreatedAt) {
			continue
		}
		open = append(open, log)
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].CreatedAt.Before(open[j].CreatedAt)
	})
	return open
}

// RemoteLogRepository defines persistence for the outbound action log
type RemoteLogRepository interface {
	// Append stores a log entry
	Append(ctx context.Context, log *RemoteLog) error

	// FindByRemoteProduct returns the full log stream of a product mirror,
	// oldest first
	FindByRemoteProduct(ctx context.Context, tenantID, remoteProductID uuid.UUID) ([]RemoteLog, error)

	// FindByChannel returns the most recent entries for a channel
	FindByChannel(ctx context.Context, tenantID, channelID uuid.UUID, limit int) ([]RemoteLog, error)
}
