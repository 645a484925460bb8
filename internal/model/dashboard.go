package model

// SuperAdminStats are global platform counts. Every field is always present;
// metrics that are not computed yet are reported as zero.
type SuperAdminStats struct {
	TotalSchools        int64   `json:"totalSchools"`
	ActiveSchools       int64   `json:"activeSchools"`
	ActiveSubscriptions int64   `json:"activeSubscriptions"`
	TotalUsers          int64   `json:"totalUsers"`
	MonthlyRevenue      float64 `json:"monthlyRevenue"`
}

// SchoolAdminStats are counts scoped to one school. Every field is always present.
type SchoolAdminStats struct {
	TotalStudents  int64   `json:"totalStudents"`
	ActiveStudents int64   `json:"activeStudents"`
	TotalTeachers  int64   `json:"totalTeachers"`
	TotalParents   int64   `json:"totalParents"`
	AttendanceRate float64 `json:"attendanceRate"`
	PendingFees    float64 `json:"pendingFees"`
}
