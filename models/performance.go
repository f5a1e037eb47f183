package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bitbucket.org/darshanedu/insight_backend/config"
	"bitbucket.org/darshanedu/insight_backend/utils"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PerformanceRecord is one branch/wing/year/type snapshot. Re-ingesting
// the same scope produces a new record with a fresh timestamp; readers
// keep only the latest per scope, so stale snapshots are harmless.
type PerformanceRecord struct {
	ID         string     `gorm:"primaryKey;size:64" json:"id"`
	Timestamp  int64      `gorm:"index" json:"timestamp"`
	BranchName string     `gorm:"size:191;index:idx_record_scope" json:"name"`
	Wing       string     `gorm:"size:64;index:idx_record_scope" json:"wing"`
	FiscalYear string     `gorm:"size:16;index:idx_record_scope" json:"year"`
	RecordType RecordType `gorm:"size:16;index:idx_record_scope" json:"type"`
	FileName   string     `gorm:"size:255" json:"fileName"`

	HealthScore int             `json:"healthScore"`
	RiskLevel   RiskLevel       `gorm:"size:16" json:"riskLevel"`
	Trend       Trend           `gorm:"size:16" json:"trend"`
	Concessions decimal.Decimal `gorm:"type:decimal(20,6)" json:"concessions"`

	Financials      FinancialData       `gorm:"type:json" json:"financials"`
	Academics       AcademicData        `gorm:"type:json" json:"academics"`
	MonthlyCashFlow MonthlyCashFlowList `gorm:"type:json" json:"monthlyCashFlow"`

	CreatedAt int64 `gorm:"autoCreateTime:milli" json:"-"`
	UpdatedAt int64 `gorm:"autoUpdateTime:milli" json:"-"`
}

func (PerformanceRecord) TableName() string {
	return "performance_records"
}

// DedupeKey identifies a record's ingestion scope. Two records with the
// same key describe the same branch slice; only the latest one counts.
func (r *PerformanceRecord) DedupeKey() string {
	return strings.Join([]string{r.BranchName, r.Wing, r.FiscalYear, string(r.RecordType)}, "|")
}

func NewRecordID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}

func FetchAllRecords(ctx context.Context) ([]PerformanceRecord, error) {
	db := config.GetDB()
	var records []PerformanceRecord
	err := db.WithContext(ctx).Order("timestamp ASC").Find(&records).Error
	if err != nil {
		config.LogError(config.GetLogger(), "performance", "FetchAllRecords", "Error fetching records", nil, err)
		return nil, err
	}
	return records, nil
}

// UpsertRecords saves a batch in one transaction. Conflicting IDs are
// fully replaced; a partially written batch is never visible.
func UpsertRecords(ctx context.Context, records []PerformanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			UpdateAll: true,
		}).Create(&records).Error
	})
	if err != nil {
		config.LogError(config.GetLogger(), "performance", "UpsertRecords", "Error saving records", len(records), err)
		if isDuplicateKeyErr(err) {
			return errors.New("a conflicting record was written concurrently; reload and retry")
		}
		return err
	}
	return nil
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

func DeleteRecord(ctx context.Context, recordID string) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Where("id = ?", recordID).Delete(&PerformanceRecord{})
	if result.Error != nil {
		config.LogError(config.GetLogger(), "performance", "DeleteRecord", "Error deleting record", recordID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

// FetchRecordsForScope returns every stored snapshot for one ingestion
// scope, oldest first. Used by the worksheet loader to find the latest
// manual state.
func FetchRecordsForScope(ctx context.Context, branchName, wing, fiscalYear string, recordType RecordType) ([]PerformanceRecord, error) {
	db := config.GetDB()
	var records []PerformanceRecord
	err := db.WithContext(ctx).
		Where("branch_name = ? AND wing = ? AND fiscal_year = ? AND record_type = ?", branchName, wing, fiscalYear, recordType).
		Order("timestamp ASC").
		Find(&records).Error
	if err != nil {
		config.LogError(config.GetLogger(), "performance", "FetchRecordsForScope", "Error fetching scope records", branchName, err)
		return nil, err
	}
	return records, nil
}
