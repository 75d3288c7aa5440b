package evaluation

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type AttendanceRepo interface {
	Create(dbc dbctx.Context, rows []*types.AttendanceRecord) ([]*types.AttendanceRecord, error)
	ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.AttendanceRecord, error)
}

type attendanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttendanceRepo(db *gorm.DB, baseLog *logger.Logger) AttendanceRepo {
	return &attendanceRepo{db: db, log: baseLog.With("repo", "AttendanceRepo")}
}

func (r *attendanceRepo) Create(dbc dbctx.Context, rows []*types.AttendanceRecord) ([]*types.AttendanceRecord, error) {
	if len(rows) == 0 {
		return []*types.AttendanceRecord{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *attendanceRepo) ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.AttendanceRecord, error) {
	var out []*types.AttendanceRecord
	if contractID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("contract_id = ?", contractID).Order("date ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
