package repositories

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/mssola/useragent"
	"gorm.io/gorm"

	"github.com/Veerendratanneru7/transport/domain"
)

const maxUserAgentLen = 256

// AuditRepositoryImpl implements domain.AuditSink using GORM. Entries are
// append-only; write failures are logged and swallowed so an audit outage
// never blocks the operation being audited.
type AuditRepositoryImpl struct {
	db *gorm.DB
}

// DBAuditEntry represents the database model for an audit record
type DBAuditEntry struct {
	ID         uint   `gorm:"primaryKey"`
	IdentityID string `gorm:"size:450;index"`
	Phone      string `gorm:"size:50;index"`
	Role       string `gorm:"size:100"`
	Event      string `gorm:"size:50;index"`
	AtUtc      time.Time
	IP         string `gorm:"size:50"`
	UserAgent  string `gorm:"size:256"`
	Device     string `gorm:"size:100"`
	Success    bool
	CodeMasked string `gorm:"size:20"`
}

func (DBAuditEntry) TableName() string { return "audit_entries" }

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) domain.AuditSink {
	return &AuditRepositoryImpl{db: db}
}

// Append implements domain.AuditSink
func (r *AuditRepositoryImpl) Append(ctx context.Context, entry *domain.AuditEntry) {
	at := entry.AtUtc
	if at.IsZero() {
		at = time.Now().UTC()
	}
	row := DBAuditEntry{
		IdentityID: entry.IdentityID,
		Phone:      entry.Phone,
		Role:       entry.Role,
		Event:      string(entry.Event),
		AtUtc:      at,
		IP:         entry.IP,
		UserAgent:  truncate(entry.UserAgent, maxUserAgentLen),
		Device:     deviceLabel(entry.UserAgent),
		Success:    entry.Success,
		CodeMasked: entry.CodeMasked,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("audit write failed for event %s: %v", entry.Event, err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// deviceLabel condenses a raw user agent into "Browser on OS" for reporting.
func deviceLabel(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name

	browser = strings.TrimSpace(browser)
	if browser == "" {
		browser = "Unknown Browser"
	}
	os = strings.TrimSpace(os)
	if os == "" {
		os = "Unknown OS"
	}

	return browser + " on " + os
}
