package dto

type DashboardSummaryDTO struct {
	WorkOrdersByStatus   map[string]int        `json:"work_orders_by_status"`
	ReservationsByStatus map[string]int        `json:"reservations_by_status"`
	UpcomingReservations []UpcomingReservation `json:"upcoming_reservations"`
	LowStockMaterials    []LowStockMaterial    `json:"low_stock_materials"`
	EquipmentUtilization []EquipmentLoad       `json:"equipment_utilization"`
}

type UpcomingReservation struct {
	ReservationID uint64 `json:"reservation_id"`
	EquipmentName string `json:"equipment_name"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
}

type LowStockMaterial struct {
	MaterialID  uint64  `json:"material_id"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	MinQuantity float64 `json:"min_quantity"`
}

type EquipmentLoad struct {
	EquipmentID   uint64  `json:"equipment_id"`
	EquipmentName string  `json:"equipment_name"`
	ReservedHours float64 `json:"reserved_hours_7d"`
}
