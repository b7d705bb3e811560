package admin

import "travelagency/internal/domain"

type StatisticsResponse struct {
	TotalUsers       int64            `json:"totalUsers"`
	ActivePackages   int64            `json:"activePackages"`
	TodayBookings    int64            `json:"todayBookings"`
	TotalBookings    int64            `json:"totalBookings"`
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
	PaidRevenue      int64            `json:"paidRevenue"`
	PendingOrders    int64            `json:"pendingOrders"`
	GeneratedAt      string           `json:"generatedAt"`
}

type UserListFilter struct {
	Query string `form:"q"` // name/email contains
}

type UserSummary struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func toUserSummary(u domain.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
