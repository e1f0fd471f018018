package web

import (
	"context"
	"time"

	"github.com/ngocbd/coopfarm/internal/coop"
	"github.com/ngocbd/coopfarm/model"
)

type AccountService interface {
	GetUserByID(ctx context.Context, userID uint) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	StartSession(ctx context.Context, user *model.User, deviceInfo, ip string) (*model.LoginSession, error)
	EndSession(ctx context.Context, userID uint, token string, at time.Time) error
	CountActiveSessions(ctx context.Context, userID uint) (int64, error)
}

type CoopService interface {
	ListZones(ctx context.Context) ([]*model.Zone, error)
	GetZone(ctx context.Context, zoneID uint) (*model.Zone, error)
	CreateZone(ctx context.Context, actor coop.Actor, zone *model.Zone) error
	UpdateZone(ctx context.Context, actor coop.Actor, zoneID uint, columns map[string]interface{}) error
	DeleteZone(ctx context.Context, actor coop.Actor, zoneID uint) error

	ListUnits(ctx context.Context, zoneID uint) ([]*model.Unit, error)
	GetUnit(ctx context.Context, unitID uint) (*model.Unit, error)
	CreateUnit(ctx context.Context, actor coop.Actor, unit *model.Unit) error
	UpdateUnit(ctx context.Context, actor coop.Actor, unitID uint, columns map[string]interface{}) error
	DeleteUnit(ctx context.Context, actor coop.Actor, unitID uint) error

	ListMembers(ctx context.Context, unitID uint) ([]*model.Member, error)
	CreateMember(ctx context.Context, actor coop.Actor, member *model.Member) error
	UpdateMember(ctx context.Context, actor coop.Actor, memberID uint, columns map[string]interface{}) error
	DeleteMember(ctx context.Context, actor coop.Actor, memberID uint) error

	ListReports(ctx context.Context, unitID uint, period string) ([]*model.Report, error)
	FileReport(ctx context.Context, actor coop.Actor, report *model.Report) error
	UpdateReport(ctx context.Context, actor coop.Actor, reportID uint, columns map[string]interface{}) error
	DeleteReport(ctx context.Context, actor coop.Actor, reportID uint) error

	Dashboard(ctx context.Context, period string) (*coop.DashboardStats, error)
}
