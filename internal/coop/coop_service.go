package coop

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/ngocbd/coopfarm/model"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// Actor identifies the principal performing an operation, as recorded in the
// session at login.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) isAdmin() bool { return a.Role == model.RoleAdmin }

type CoopService struct {
	zoneRepo   ZoneRepository
	unitRepo   UnitRepository
	memberRepo MemberRepository
	reportRepo ReportRepository
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// canManageZone reports whether the actor may modify the given zone. Zone
// leaders manage only their own zone; admins manage everything.
func (s *CoopService) canManageZone(actor Actor, zone *model.Zone) bool {
	if actor.isAdmin() {
		return true
	}
	return actor.Role == model.RoleZoneLeader && zone.LeaderUserID == actor.UserID
}

// canManageUnit reports whether the actor may modify resources of the given
// unit: its own leader, its zone's leader, or an admin.
func (s *CoopService) canManageUnit(ctx context.Context, actor Actor, unit *model.Unit) (bool, error) {
	if actor.isAdmin() {
		return true, nil
	}
	if actor.Role == model.RoleUnitLeader {
		return unit.LeaderUserID == actor.UserID, nil
	}
	if actor.Role == model.RoleZoneLeader {
		zone, err := s.zoneRepo.GetByID(ctx, unit.ZoneID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		} else if err != nil {
			return false, err
		}
		return zone.LeaderUserID == actor.UserID, nil
	}
	return false, nil
}

// Zones

func (s *CoopService) ListZones(ctx context.Context) ([]*model.Zone, error) {
	return s.zoneRepo.Find(ctx)
}

func (s *CoopService) GetZone(ctx context.Context, zoneID uint) (*model.Zone, error) {
	zone, err := s.zoneRepo.GetByID(ctx, zoneID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrZoneNotFound
	}
	return zone, err
}

func (s *CoopService) CreateZone(ctx context.Context, actor Actor, zone *model.Zone) error {
	if !actor.isAdmin() {
		return ErrNotAllowed
	}
	if err := s.zoneRepo.Create(ctx, zone); err != nil {
		if isDuplicateEntry(err) {
			return ErrCodeTaken
		}
		return err
	}
	return nil
}

func (s *CoopService) UpdateZone(ctx context.Context, actor Actor, zoneID uint, columns map[string]interface{}) error {
	zone, err := s.GetZone(ctx, zoneID)
	if err != nil {
		return err
	}
	if !s.canManageZone(actor, zone) {
		return ErrNotAllowed
	}
	if err := s.zoneRepo.Updates(ctx, zoneID, columns); err != nil {
		if isDuplicateEntry(err) {
			return ErrCodeTaken
		}
		return err
	}
	return nil
}

func (s *CoopService) DeleteZone(ctx context.Context, actor Actor, zoneID uint) error {
	if !actor.isAdmin() {
		return ErrNotAllowed
	}
	if _, err := s.GetZone(ctx, zoneID); err != nil {
		return err
	}
	return s.zoneRepo.Delete(ctx, zoneID)
}

// Units

func (s *CoopService) ListUnits(ctx context.Context, zoneID uint) ([]*model.Unit, error) {
	return s.unitRepo.Find(ctx, zoneID)
}

func (s *CoopService) GetUnit(ctx context.Context, unitID uint) (*model.Unit, error) {
	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnitNotFound
	}
	return unit, err
}

func (s *CoopService) CreateUnit(ctx context.Context, actor Actor, unit *model.Unit) error {
	zone, err := s.GetZone(ctx, unit.ZoneID)
	if err != nil {
		return err
	}
	if !s.canManageZone(actor, zone) {
		return ErrNotAllowed
	}
	if err := s.unitRepo.Create(ctx, unit); err != nil {
		if isDuplicateEntry(err) {
			return ErrCodeTaken
		}
		return err
	}
	return nil
}

func (s *CoopService) UpdateUnit(ctx context.Context, actor Actor, unitID uint, columns map[string]interface{}) error {
	unit, err := s.GetUnit(ctx, unitID)
	if err != nil {
		return err
	}
	allowed, err := s.canManageUnit(ctx, actor, unit)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNotAllowed
	}
	if err := s.unitRepo.Updates(ctx, unitID, columns); err != nil {
		if isDuplicateEntry(err) {
			return ErrCodeTaken
		}
		return err
	}
	return nil
}

func (s *CoopService) DeleteUnit(ctx context.Context, actor Actor, unitID uint) error {
	unit, err := s.GetUnit(ctx, unitID)
	if err != nil {
		return err
	}
	zone, err := s.GetZone(ctx, unit.ZoneID)
	if err != nil {
		return err
	}
	if !s.canManageZone(actor, zone) {
		return ErrNotAllowed
	}
	return s.unitRepo.Delete(ctx, unitID)
}

// Members

func (s *CoopService) ListMembers(ctx context.Context, unitID uint) ([]*model.Member, error) {
	return s.memberRepo.Find(ctx, unitID)
}

func (s *CoopService) GetMember(ctx context.Context, memberID uint) (*model.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	return member, err
}

func (s *CoopService) CreateMember(ctx context.Context, actor Actor, member *model.Member) error {
	unit, err := s.GetUnit(ctx, member.UnitID)
	if err != nil {
		return err
	}
	allowed, err := s.canManageUnit(ctx, actor, unit)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNotAllowed
	}
	return s.memberRepo.Create(ctx, member)
}

func (s *CoopService) UpdateMember(ctx context.Context, actor Actor, memberID uint, columns map[string]interface{}) error {
	member, err := s.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	unit, err := s.GetUnit(ctx, member.UnitID)
	if err != nil {
		return err
	}
	allowed, err := s.canManageUnit(ctx, actor, unit)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNotAllowed
	}
	return s.memberRepo.Updates(ctx, memberID, columns)
}

func (s *CoopService) DeleteMember(ctx context.Context, actor Actor, memberID uint) error {
	member, err := s.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	unit, err := s.GetUnit(ctx, member.UnitID)
	if err != nil {
		return err
	}
	allowed, err := s.canManageUnit(ctx, actor, unit)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNotAllowed
	}
	return s.memberRepo.Delete(ctx, memberID)
}

// Reports

func (s *CoopService) ListReports(ctx context.Context, unitID uint, period string) ([]*model.Report, error) {
	return s.reportRepo.Find(ctx, unitID, period)
}

func (s *CoopService) FileReport(ctx context.Context, actor Actor, report *model.Report) error {
	unit, err := s.GetUnit(ctx, report.UnitID)
	if err != nil {
		return err
	}
	allowed, err := s.canManageUnit(ctx, actor, unit)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNotAllowed
	}
	report.AuthorUserID = actor.UserID
	if err := s.reportRepo.Create(ctx, report); err != nil {
		if isDuplicateEntry(err) {
			return ErrPeriodReported
		}
		return err
	}
	return nil
}

func (s *CoopService) UpdateReport(ctx context.Context, actor Actor, reportID uint, columns map[string]interface{}) error {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReportNotFound
	} else if err != nil {
		return err
	}
	unit, err := s.GetUnit(ctx, report.UnitID)
	if err != nil {
		return err
	}
	allowed, err := s.canManageUnit(ctx, actor, unit)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNotAllowed
	}
	return s.reportRepo.Updates(ctx, reportID, columns)
}

func (s *CoopService) DeleteReport(ctx context.Context, actor Actor, reportID uint) error {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReportNotFound
	} else if err != nil {
		return err
	}
	unit, err := s.GetUnit(ctx, report.UnitID)
	if err != nil {
		return err
	}
	allowed, err := s.canManageUnit(ctx, actor, unit)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNotAllowed
	}
	return s.reportRepo.Delete(ctx, reportID)
}

func NewCoopService(zoneRepo ZoneRepository, unitRepo UnitRepository, memberRepo MemberRepository, reportRepo ReportRepository) *CoopService {
	return &CoopService{
		zoneRepo:   zoneRepo,
		unitRepo:   unitRepo,
		memberRepo: memberRepo,
		reportRepo: reportRepo,
	}
}
