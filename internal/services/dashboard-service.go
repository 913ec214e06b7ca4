package services

import (
	"context"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/repositories"

	"go.uber.org/zap"
)

const (
	dashboardUpcomingLimit = 10
	dashboardLowStockLimit = 10
	dashboardLoadLimit     = 10
	dashboardLoadWindow    = 7 * 24 * time.Hour
)

type DashboardServiceInterface interface {
	GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error)
}

type DashboardService struct {
	dashRepo repositories.DashboardRepositoryInterface
	matRepo  repositories.MaterialRepositoryInterface
	logger   *zap.Logger
}

func NewDashboardService(dashRepo repositories.DashboardRepositoryInterface, matRepo repositories.MaterialRepositoryInterface, logger *zap.Logger) DashboardServiceInterface {
	return &DashboardService{dashRepo: dashRepo, matRepo: matRepo, logger: logger}
}

func (s *DashboardService) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()

	workOrders, err := s.dashRepo.CountWorkOrdersByStatus(ctx)
	if err != nil {
		return nil, err
	}
	reservations, err := s.dashRepo.CountReservationsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.dashRepo.GetUpcomingReservations(ctx, now, dashboardUpcomingLimit)
	if err != nil {
		return nil, err
	}
	load, err := s.dashRepo.GetEquipmentLoad(ctx, now, now.Add(dashboardLoadWindow), dashboardLoadLimit)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.matRepo.GetLowStock(ctx, dashboardLowStockLimit)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummaryDTO{
		WorkOrdersByStatus:   workOrders,
		ReservationsByStatus: reservations,
		UpcomingReservations: upcoming,
		EquipmentUtilization: load,
		LowStockMaterials:    make([]dto.LowStockMaterial, 0, len(lowStock)),
	}
	for _, m := range lowStock {
		summary.LowStockMaterials = append(summary.LowStockMaterials, dto.LowStockMaterial{
			MaterialID:  m.ID,
			Name:        m.Name,
			Quantity:    m.Quantity,
			MinQuantity: m.MinQuantity,
		})
	}
	return summary, nil
}
