package coop

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/ngocbd/coopfarm/model"
	"gorm.io/gorm"
)

type fakeZoneRepo struct {
	zones     map[uint]*model.Zone
	createErr error
	deleted   []uint
}

func (f *fakeZoneRepo) Find(ctx context.Context) ([]*model.Zone, error) {
	var out []*model.Zone
	for _, z := range f.zones {
		out = append(out, z)
	}
	return out, nil
}

func (f *fakeZoneRepo) GetByID(ctx context.Context, zoneID uint) (*model.Zone, error) {
	if z, ok := f.zones[zoneID]; ok {
		return z, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeZoneRepo) Create(ctx context.Context, zone *model.Zone) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.zones[zone.ID] = zone
	return nil
}

func (f *fakeZoneRepo) Updates(ctx context.Context, zoneID uint, columns map[string]interface{}) error {
	return nil
}

func (f *fakeZoneRepo) Delete(ctx context.Context, zoneID uint) error {
	f.deleted = append(f.deleted, zoneID)
	delete(f.zones, zoneID)
	return nil
}

func (f *fakeZoneRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.zones)), nil
}

type fakeUnitRepo struct {
	units   map[uint]*model.Unit
	updated []uint
}

func (f *fakeUnitRepo) Find(ctx context.Context, zoneID uint) ([]*model.Unit, error) {
	var out []*model.Unit
	for _, u := range f.units {
		if zoneID == 0 || u.ZoneID == zoneID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUnitRepo) GetByID(ctx context.Context, unitID uint) (*model.Unit, error) {
	if u, ok := f.units[unitID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUnitRepo) Create(ctx context.Context, unit *model.Unit) error {
	f.units[unit.ID] = unit
	return nil
}

func (f *fakeUnitRepo) Updates(ctx context.Context, unitID uint, columns map[string]interface{}) error {
	f.updated = append(f.updated, unitID)
	return nil
}

func (f *fakeUnitRepo) Delete(ctx context.Context, unitID uint) error {
	delete(f.units, unitID)
	return nil
}

func (f *fakeUnitRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.units)), nil
}

type fakeMemberRepo struct {
	members map[uint]*model.Member
}

func (f *fakeMemberRepo) Find(ctx context.Context, unitID uint) ([]*model.Member, error) {
	var out []*model.Member
	for _, m := range f.members {
		if unitID == 0 || m.UnitID == unitID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) GetByID(ctx context.Context, memberID uint) (*model.Member, error) {
	if m, ok := f.members[memberID]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMemberRepo) Create(ctx context.Context, member *model.Member) error {
	f.members[member.ID] = member
	return nil
}

func (f *fakeMemberRepo) Updates(ctx context.Context, memberID uint, columns map[string]interface{}) error {
	return nil
}

func (f *fakeMemberRepo) Delete(ctx context.Context, memberID uint) error {
	delete(f.members, memberID)
	return nil
}

func (f *fakeMemberRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.members)), nil
}

type fakeReportRepo struct {
	reports   map[uint]*model.Report
	createErr error
}

func (f *fakeReportRepo) Find(ctx context.Context, unitID uint, period string) ([]*model.Report, error) {
	var out []*model.Report
	for _, r := range f.reports {
		if (unitID == 0 || r.UnitID == unitID) && (period == "" || r.Period == period) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, reportID uint) (*model.Report, error) {
	if r, ok := f.reports[reportID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReportRepo) Create(ctx context.Context, report *model.Report) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.reports[report.ID] = report
	return nil
}

func (f *fakeReportRepo) Updates(ctx context.Context, reportID uint, columns map[string]interface{}) error {
	return nil
}

func (f *fakeReportRepo) Delete(ctx context.Context, reportID uint) error {
	delete(f.reports, reportID)
	return nil
}

func (f *fakeReportRepo) TotalsForPeriod(ctx context.Context, period string) (*PeriodTotals, error) {
	return &PeriodTotals{}, nil
}

// Fixture: zone 10 led by user 100, holding unit 20 led by user 200 and
// unit 21 led by user 201. Zone 11 is led by user 101.
func newTestService() (*CoopService, *fakeZoneRepo, *fakeUnitRepo, *fakeReportRepo) {
	zones := &fakeZoneRepo{zones: map[uint]*model.Zone{
		10: {ID: 10, Code: "Z-NORTH", LeaderUserID: 100},
		11: {ID: 11, Code: "Z-SOUTH", LeaderUserID: 101},
	}}
	units := &fakeUnitRepo{units: map[uint]*model.Unit{
		20: {ID: 20, ZoneID: 10, Code: "U-RICE", LeaderUserID: 200},
		21: {ID: 21, ZoneID: 10, Code: "U-MAIZE", LeaderUserID: 201},
	}}
	members := &fakeMemberRepo{members: map[uint]*model.Member{
		30: {ID: 30, UnitID: 20, FullName: "Nguyen Van A"},
	}}
	reports := &fakeReportRepo{reports: map[uint]*model.Report{
		40: {ID: 40, UnitID: 20, Period: "2025-05", AuthorUserID: 200},
	}}
	return NewCoopService(zones, units, members, reports), zones, units, reports
}

var (
	admin      = Actor{UserID: 1, Role: model.RoleAdmin}
	zoneLeader = Actor{UserID: 100, Role: model.RoleZoneLeader}
	otherZone  = Actor{UserID: 101, Role: model.RoleZoneLeader}
	unitLeader = Actor{UserID: 200, Role: model.RoleUnitLeader}
	otherUnit  = Actor{UserID: 201, Role: model.RoleUnitLeader}
	plain      = Actor{UserID: 300, Role: model.RoleMember}
)

// TestZonePermissions verifies zone mutations: creation and deletion are
// admin-only, updates are allowed for the zone's own leader.
func TestZonePermissions(t *testing.T) {
	svc, zones, _, _ := newTestService()
	ctx := context.Background()

	if err := svc.CreateZone(ctx, zoneLeader, &model.Zone{ID: 12, Code: "Z-WEST"}); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("zone leader created a zone: %v", err)
	}
	if err := svc.CreateZone(ctx, admin, &model.Zone{ID: 12, Code: "Z-WEST"}); err != nil {
		t.Fatalf("admin create zone failed: %v", err)
	}

	if err := svc.UpdateZone(ctx, zoneLeader, 10, map[string]interface{}{"name": "North"}); err != nil {
		t.Fatalf("own-zone update failed: %v", err)
	}
	if err := svc.UpdateZone(ctx, otherZone, 10, map[string]interface{}{"name": "X"}); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("foreign zone leader updated zone 10: %v", err)
	}

	if err := svc.DeleteZone(ctx, zoneLeader, 10); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("zone leader deleted a zone: %v", err)
	}
	if err := svc.DeleteZone(ctx, admin, 12); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if len(zones.deleted) != 1 || zones.deleted[0] != 12 {
		t.Fatalf("deleted zones = %v, want [12]", zones.deleted)
	}
	if err := svc.DeleteZone(ctx, admin, 99); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("deleting missing zone: %v", err)
	}
}

// TestUnitPermissions verifies the ownership chain: a unit is managed by its
// own leader and by the leader of its zone, nobody else below admin.
func TestUnitPermissions(t *testing.T) {
	svc, _, units, _ := newTestService()
	ctx := context.Background()
	cols := map[string]interface{}{"name": "Rice team"}

	if err := svc.UpdateUnit(ctx, unitLeader, 20, cols); err != nil {
		t.Fatalf("own unit update failed: %v", err)
	}
	if err := svc.UpdateUnit(ctx, zoneLeader, 20, cols); err != nil {
		t.Fatalf("zone leader update of own zone's unit failed: %v", err)
	}
	if err := svc.UpdateUnit(ctx, otherUnit, 20, cols); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("foreign unit leader updated unit 20: %v", err)
	}
	if err := svc.UpdateUnit(ctx, otherZone, 20, cols); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("foreign zone leader updated unit 20: %v", err)
	}
	if err := svc.UpdateUnit(ctx, plain, 20, cols); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("plain member updated unit 20: %v", err)
	}
	if err := svc.UpdateUnit(ctx, admin, 20, cols); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if len(units.updated) != 3 {
		t.Fatalf("unit updates persisted = %d, want 3", len(units.updated))
	}

	if err := svc.CreateUnit(ctx, unitLeader, &model.Unit{ID: 22, ZoneID: 10}); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("unit leader created a unit: %v", err)
	}
	if err := svc.CreateUnit(ctx, zoneLeader, &model.Unit{ID: 22, ZoneID: 10, Code: "U-BEAN"}); err != nil {
		t.Fatalf("zone leader create unit failed: %v", err)
	}
}

// TestMemberPermissions verifies member records follow the owning unit's
// management chain.
func TestMemberPermissions(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if err := svc.CreateMember(ctx, unitLeader, &model.Member{ID: 31, UnitID: 20, FullName: "Tran Thi B"}); err != nil {
		t.Fatalf("unit leader create member failed: %v", err)
	}
	if err := svc.CreateMember(ctx, otherUnit, &model.Member{ID: 32, UnitID: 20}); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("foreign unit leader created member: %v", err)
	}
	if err := svc.DeleteMember(ctx, zoneLeader, 30); err != nil {
		t.Fatalf("zone leader delete member failed: %v", err)
	}
	if _, err := svc.GetMember(ctx, 30); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("member 30 still present after delete: %v", err)
	}
}

// TestFileReport verifies authorship stamping, ownership checks and the
// duplicate-period mapping.
func TestFileReport(t *testing.T) {
	svc, _, _, reports := newTestService()
	ctx := context.Background()

	report := &model.Report{ID: 41, UnitID: 20, Period: "2025-06"}
	if err := svc.FileReport(ctx, unitLeader, report); err != nil {
		t.Fatalf("FileReport failed: %v", err)
	}
	if report.AuthorUserID != unitLeader.UserID {
		t.Fatalf("author = %d, want %d", report.AuthorUserID, unitLeader.UserID)
	}

	if err := svc.FileReport(ctx, otherUnit, &model.Report{ID: 42, UnitID: 20, Period: "2025-07"}); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("foreign unit leader filed report: %v", err)
	}

	reports.createErr = &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	err := svc.FileReport(ctx, unitLeader, &model.Report{ID: 43, UnitID: 20, Period: "2025-06"})
	if !errors.Is(err, ErrPeriodReported) {
		t.Fatalf("duplicate period: got %v, want ErrPeriodReported", err)
	}
}

// TestCreateZoneDuplicateCode verifies the unique-key violation maps to
// ErrCodeTaken.
func TestCreateZoneDuplicateCode(t *testing.T) {
	svc, zones, _, _ := newTestService()
	zones.createErr = &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

	err := svc.CreateZone(context.Background(), admin, &model.Zone{ID: 13, Code: "Z-NORTH"})
	if !errors.Is(err, ErrCodeTaken) {
		t.Fatalf("duplicate code: got %v, want ErrCodeTaken", err)
	}
}
