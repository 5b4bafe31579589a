package report

import (
	"github.com/shopspring/decimal"
)

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type TaskCompletionRow struct {
	TaskID          string `col:"taskId,Task ID"`
	Title           string `col:"title,Task"`
	Property        string `col:"property,Property"`
	Assignee        string `col:"assignee,Assignee"`
	Category        string `col:"category,Category"`
	Status          string `col:"status,Status"`
	Priority        string `col:"priority,Priority"`
	DueDate         string `col:"dueDate,Due Date,date"`
	CompletedDate   string `col:"completedDate,Completed,date"`
	DurationMinutes int    `col:"durationMinutes,Duration (min),number"`
}

type StaffProductivityRow struct {
	StaffName            string  `col:"staffName,Staff Member"`
	Role                 string  `col:"role,Role"`
	Property             string  `col:"property,Primary Property"`
	WeekOf               string  `col:"weekOf,Week Of,date"`
	TasksAssigned        int     `col:"tasksAssigned,Assigned,number"`
	TasksCompleted       int     `col:"tasksCompleted,Completed,number"`
	CompletionRate       float64 `col:"completionRate,Completion %,number"`
	AvgCompletionMinutes int     `col:"avgCompletionMinutes,Avg Minutes,number"`
	HoursWorked          float64 `col:"hoursWorked,Hours,number"`
}

type FinancialSummaryRow struct {
	Month         string          `col:"month,Month,date"`
	Property      string          `col:"property,Property"`
	Revenue       decimal.Decimal `col:"revenue,Revenue,currency"`
	Expenses      decimal.Decimal `col:"expenses,Expenses,currency"`
	NetIncome     decimal.Decimal `col:"netIncome,Net Income,currency"`
	OccupancyRate float64         `col:"occupancyRate,Occupancy %,number"`
}

type PropertyPerformanceRow struct {
	Property         string          `col:"property,Property"`
	Location         string          `col:"location,Location"`
	Bedrooms         int             `col:"bedrooms,Bedrooms,number"`
	OccupancyRate    float64         `col:"occupancyRate,Occupancy %,number"`
	AverageDailyRate decimal.Decimal `col:"averageDailyRate,ADR,currency"`
	RevPAR           decimal.Decimal `col:"revPAR,RevPAR,currency"`
	TotalBookings    int             `col:"totalBookings,Bookings,number"`
	AverageRating    float64         `col:"averageRating,Rating,number"`
	Status           string          `col:"status,Status"`
}

type BookingAnalyticsRow struct {
	BookingID   string          `col:"bookingId,Booking ID"`
	Property    string          `col:"property,Property"`
	GuestName   string          `col:"guestName,Guest"`
	Source      string          `col:"source,Channel"`
	Status      string          `col:"status,Status"`
	CheckIn     string          `col:"checkIn,Check-in,date"`
	CheckOut    string          `col:"checkOut,Check-out,date"`
	Nights      int             `col:"nights,Nights,number"`
	TotalAmount decimal.Decimal `col:"totalAmount,Total,currency"`
}

type GuestSatisfactionRow struct {
	ReviewID      string  `col:"reviewId,Review ID"`
	Property      string  `col:"property,Property"`
	GuestName     string  `col:"guestName,Guest"`
	Source        string  `col:"source,Platform"`
	Rating        float64 `col:"rating,Overall,number"`
	Cleanliness   float64 `col:"cleanliness,Cleanliness,number"`
	Communication float64 `col:"communication,Communication,number"`
	ReviewDate    string  `col:"reviewDate,Review Date,date"`
	Comment       string  `col:"comment,Comment"`
}

type MaintenanceCostRow struct {
	WorkOrderID   string          `col:"workOrderId,Work Order"`
	Property      string          `col:"property,Property"`
	Category      string          `col:"category,Category"`
	Description   string          `col:"description,Description"`
	Vendor        string          `col:"vendor,Vendor"`
	LaborCost     decimal.Decimal `col:"laborCost,Labor,currency"`
	PartsCost     decimal.Decimal `col:"partsCost,Parts,currency"`
	TotalCost     decimal.Decimal `col:"totalCost,Total,currency"`
	Status        string          `col:"status,Status"`
	CompletedDate string          `col:"completedDate,Completed,date"`
}

type DamageHistoryRow struct {
	IncidentID     string          `col:"incidentId,Incident"`
	Property       string          `col:"property,Property"`
	ReportedDate   string          `col:"reportedDate,Reported,date"`
	Item           string          `col:"item,Item"`
	Category       string          `col:"category,Category"`
	Severity       string          `col:"severity,Severity"`
	RepairCost     decimal.Decimal `col:"repairCost,Repair Cost,currency"`
	ChargedToGuest bool            `col:"chargedToGuest,Charged to Guest"`
	Status         string          `col:"status,Status"`
}

type InventoryLevelRow struct {
	ItemName     string          `col:"itemName,Item"`
	SKU          string          `col:"sku,SKU"`
	Category     string          `col:"category,Category"`
	CurrentStock int             `col:"currentStock,In Stock,number"`
	ReorderLevel int             `col:"reorderLevel,Reorder At,number"`
	UnitCost     decimal.Decimal `col:"unitCost,Unit Cost,currency"`
	TotalValue   decimal.Decimal `col:"totalValue,Total Value,currency"`
	Location     string          `col:"location,Location"`
	Supplier     string          `col:"supplier,Supplier"`
	LastOrdered  string          `col:"lastOrdered,Last Ordered,date"`
}

type RevenueAnalysisRow struct {
	Month        string          `col:"month,Month,date"`
	Property     string          `col:"property,Property"`
	Source       string          `col:"source,Channel"`
	Bookings     int             `col:"bookings,Bookings,number"`
	NightsBooked int             `col:"nightsBooked,Nights,number"`
	GrossRevenue decimal.Decimal `col:"grossRevenue,Gross,currency"`
	Fees         decimal.Decimal `col:"fees,Channel Fees,currency"`
	NetRevenue   decimal.Decimal `col:"netRevenue,Net,currency"`
}

type ExpenseRow struct {
	ExpenseID   string          `col:"expenseId,Expense ID"`
	Date        string          `col:"date,Date,date"`
	Property    string          `col:"property,Property"`
	Category    string          `col:"category,Category"`
	Vendor      string          `col:"vendor,Vendor"`
	Description string          `col:"description,Description"`
	Amount      decimal.Decimal `col:"amount,Amount,currency"`
	Status      string          `col:"status,Status"`
}

type OperationalEfficiencyRow struct {
	Metric   string  `col:"metric,Metric"`
	Property string  `col:"property,Property"`
	Current  float64 `col:"current,Current,number"`
	Target   float64 `col:"target,Target,number"`
	Variance float64 `col:"variance,Variance,number"`
	Status   string  `col:"status,Status"`
	Period   string  `col:"period,Period"`
}

type TurnoverMetricsRow struct {
	TurnoverID      string  `col:"turnoverId,Turnover"`
	Property        string  `col:"property,Property"`
	CheckoutDate    string  `col:"checkoutDate,Checkout,date"`
	Assignee        string  `col:"assignee,Cleaner"`
	CleaningMinutes int     `col:"cleaningMinutes,Cleaning (min),number"`
	InspectionScore float64 `col:"inspectionScore,Inspection Score,number"`
	IssuesFound     int     `col:"issuesFound,Issues,number"`
	Status          string  `col:"status,Status"`
}

type EnergyConsumptionRow struct {
	Property       string          `col:"property,Property"`
	Month          string          `col:"month,Month,date"`
	ElectricityKWh float64         `col:"electricityKwh,Electricity (kWh),number"`
	GasTherms      float64         `col:"gasTherms,Gas (therms),number"`
	WaterGallons   float64         `col:"waterGallons,Water (gal),number"`
	TotalCost      decimal.Decimal `col:"totalCost,Total Cost,currency"`
	CostPerNight   decimal.Decimal `col:"costPerNight,Cost / Night,currency"`
}

type VendorPerformanceRow struct {
	VendorName      string          `col:"vendorName,Vendor"`
	ServiceCategory string          `col:"serviceCategory,Service"`
	JobsCompleted   int             `col:"jobsCompleted,Jobs,number"`
	OnTimeRate      float64         `col:"onTimeRate,On Time %,number"`
	AverageRating   float64         `col:"averageRating,Rating,number"`
	TotalSpend      decimal.Decimal `col:"totalSpend,Total Spend,currency"`
	Status          string          `col:"status,Status"`
	LastServiceDate string          `col:"lastServiceDate,Last Service,date"`
}

type ComplianceAuditRow struct {
	AuditID       string `col:"auditId,Audit ID"`
	Property      string `col:"property,Property"`
	Category      string `col:"category,Category"`
	Requirement   string `col:"requirement,Requirement"`
	Status        string `col:"status,Status"`
	Inspector     string `col:"inspector,Inspector"`
	LastInspected string `col:"lastInspected,Last Inspected,date"`
	NextDue       string `col:"nextDue,Next Due,date"`
	Notes         string `col:"notes,Notes"`
}

// sampleDescriptors is the bundled dataset served until live data sources are wired
func sampleDescriptors() []*Descriptor {
	return []*Descriptor{
		define(ReportTypeTaskCompletion, "Task Completion Log", []TaskCompletionRow{
			{"T-1001", "Deep clean after checkout", "Villa Caldera", "Maria Lopez", "Cleaning", "completed", "high", "2026-09-02", "2026-09-02", 180},
			{"T-1002", "Replace pool filter", "Villa Caldera", "James Chen", "Maintenance", "completed", "medium", "2026-09-05", "2026-09-06", 95},
			{"T-1003", "Restock welcome basket", "Casa Azul", "Aisha Khan", "Guest Services", "completed", "low", "2026-09-07", "2026-09-07", 20},
			{"T-1004", "Fix leaking kitchen tap", "Harbor Loft", "James Chen", "Maintenance", "in-progress", "high", "2026-09-12", "", 0},
			{"T-1005", "Linen change, master suite", "Villa Caldera", "Maria Lopez", "Cleaning", "completed", "medium", "2026-09-15", "2026-09-15", 45},
			{"T-1006", "Inspect smoke detectors", "Pine Ridge Cabin", "Tom Becker", "Inspection", "pending", "high", "2026-09-20", "", 0},
			{"T-1007", "Window cleaning", "Casa Azul", "Maria Lopez", "Cleaning", "completed", "low", "2026-09-22", "2026-09-23", 120},
			{"T-1008", "HVAC service", "Villa Caldera", "Tom Becker", "Maintenance", "overdue", "high", "2026-09-25", "", 0},
		}, withDateField("dueDate")),

		define(ReportTypeStaffProductivity, "Staff Productivity", []StaffProductivityRow{
			{"Maria Lopez", "Housekeeper", "Villa Caldera", "2026-09-14", 14, 13, 92.9, 78, 38.5},
			{"James Chen", "Maintenance Tech", "Harbor Loft", "2026-09-14", 9, 7, 77.8, 110, 40},
			{"Aisha Khan", "Guest Services", "Casa Azul", "2026-09-14", 11, 11, 100, 25, 32},
			{"Tom Becker", "Inspector", "Pine Ridge Cabin", "2026-09-14", 6, 4, 66.7, 60, 24},
			{"Maria Lopez", "Housekeeper", "Villa Caldera", "2026-09-21", 12, 12, 100, 74, 36},
			{"James Chen", "Maintenance Tech", "Harbor Loft", "2026-09-21", 10, 9, 90, 102, 41.5},
		}, withDateField("weekOf"), withFilterKey(FilterAssignee, "staffName")),

		define(ReportTypeFinancialSummary, "Financial Summary", []FinancialSummaryRow{
			{"2026-07-01", "Villa Caldera", usd("48250.00"), usd("12900.00"), usd("35350.00"), 91.2},
			{"2026-07-01", "Casa Azul", usd("21400.00"), usd("6850.00"), usd("14550.00"), 84.5},
			{"2026-08-01", "Villa Caldera", usd("51780.00"), usd("13420.00"), usd("38360.00"), 94.8},
			{"2026-08-01", "Harbor Loft", usd("15320.00"), usd("4975.50"), usd("10344.50"), 78.1},
			{"2026-09-01", "Villa Caldera", usd("39610.00"), usd("11870.25"), usd("27739.75"), 82.3},
			{"2026-09-01", "Pine Ridge Cabin", usd("9875.00"), usd("3120.00"), usd("6755.00"), 66.0},
		}, withDateField("month")),

		define(ReportTypePropertyPerformance, "Property Performance", []PropertyPerformanceRow{
			{"Villa Caldera", "Santorini, GR", 5, 89.4, usd("685.00"), usd("612.39"), 42, 4.9, "active"},
			{"Casa Azul", "Tulum, MX", 3, 81.7, usd("310.00"), usd("253.27"), 55, 4.7, "active"},
			{"Harbor Loft", "Lisbon, PT", 2, 76.2, usd("225.00"), usd("171.45"), 61, 4.6, "active"},
			{"Pine Ridge Cabin", "Asheville, US", 3, 64.9, usd("240.00"), usd("155.76"), 38, 4.8, "maintenance"},
		}),

		define(ReportTypeBookingAnalytics, "Booking Analytics", []BookingAnalyticsRow{
			{"B-5001", "Villa Caldera", "Olivia Martin", "Airbnb", "completed", "2026-08-28", "2026-09-04", 7, usd("4795.00")},
			{"B-5002", "Casa Azul", "Noah Fischer", "Booking.com", "completed", "2026-09-01", "2026-09-05", 4, usd("1240.00")},
			{"B-5003", "Harbor Loft", "Emma Rossi", "Direct", "confirmed", "2026-09-18", "2026-09-21", 3, usd("675.00")},
			{"B-5004", "Villa Caldera", "Liam Dubois", "Vrbo", "cancelled", "2026-09-20", "2026-09-27", 7, usd("0.00")},
			{"B-5005", "Pine Ridge Cabin", "Sophia Novak", "Airbnb", "confirmed", "2026-10-02", "2026-10-06", 4, usd("960.00")},
			{"B-5006", "Casa Azul", "Lucas Silva", "Direct", "confirmed", "2026-10-10", "2026-10-14", 4, usd("1240.00")},
		}, withDateField("checkIn")),

		define(ReportTypeGuestSatisfaction, "Guest Satisfaction", []GuestSatisfactionRow{
			{"R-301", "Villa Caldera", "Olivia Martin", "Airbnb", 5, 5, 5, "2026-09-05", "Stunning views, spotless villa"},
			{"R-302", "Casa Azul", "Noah Fischer", "Booking.com", 4, 4, 5, "2026-09-06", "Great host, AC was a bit loud"},
			{"R-303", "Harbor Loft", "Grace Lee", "Direct", 4.5, 5, 4, "2026-09-11", "Central location, \"cozy\" indeed"},
			{"R-304", "Pine Ridge Cabin", "Ethan Wright", "Airbnb", 3.5, 3, 4, "2026-09-19", "Needs a few repairs, hot tub was cold"},
		}, withDateField("reviewDate")),

		define(ReportTypeMaintenanceCost, "Maintenance Cost Breakdown", []MaintenanceCostRow{
			{"WO-201", "Villa Caldera", "Pool", "Replace pool filter cartridge", "AquaCare", usd("120.00"), usd("86.50"), usd("206.50"), "completed", "2026-09-06"},
			{"WO-202", "Harbor Loft", "Plumbing", "Kitchen tap washer", "FixRight Plumbing", usd("95.00"), usd("12.40"), usd("107.40"), "completed", "2026-09-13"},
			{"WO-203", "Pine Ridge Cabin", "Electrical", "Replace hot tub heater element", "Ridge Electric", usd("240.00"), usd("310.00"), usd("550.00"), "in-progress", ""},
			{"WO-204", "Villa Caldera", "HVAC", "Annual HVAC service", "CoolAir Services", usd("180.00"), usd("45.00"), usd("225.00"), "scheduled", ""},
			{"WO-205", "Casa Azul", "Appliances", "Dishwasher pump", "FixRight Plumbing", usd("110.00"), usd("139.99"), usd("249.99"), "completed", "2026-09-24"},
		}, withDateField("completedDate")),

		define(ReportTypeDamageHistory, "Damage History", []DamageHistoryRow{
			{"D-71", "Villa Caldera", "2026-08-30", "Wine glass set", "Kitchenware", "minor", usd("48.00"), true, "resolved"},
			{"D-72", "Casa Azul", "2026-09-06", "Sofa cushion stain", "Furniture", "moderate", usd("150.00"), true, "resolved"},
			{"D-73", "Harbor Loft", "2026-09-14", "Bathroom mirror", "Fixtures", "major", usd("320.00"), false, "open"},
			{"D-74", "Pine Ridge Cabin", "2026-09-28", "Deck railing", "Exterior", "major", usd("780.00"), false, "in-repair"},
		}, withDateField("reportedDate")),

		define(ReportTypeInventoryLevels, "Inventory Levels", []InventoryLevelRow{
			{"Bath Towels", "LIN-BT-01", "Linens", 64, 40, usd("12.50"), usd("800.00"), "Villa Caldera Storage", "Coastal Linen Co.", "2026-08-12"},
			{"Hand Towels", "LIN-HT-02", "Linens", 35, 40, usd("6.25"), usd("218.75"), "Villa Caldera Storage", "Coastal Linen Co.", "2026-08-12"},
			{"Queen Sheet Set", "LIN-QS-03", "Linens", 18, 12, usd("54.00"), usd("972.00"), "Central Warehouse", "Coastal Linen Co.", "2026-07-29"},
			{"Toilet Paper", "CON-TP-01", "Consumables", 240, 120, usd("0.85"), usd("204.00"), "Central Warehouse", "CleanSupply Inc.", "2026-09-10"},
			{"Coffee Pods", "CON-CP-02", "Consumables", 90, 100, usd("0.60"), usd("54.00"), "Casa Azul Pantry", "Bean Bros", "2026-09-02"},
			{"Dish Soap", "CLN-DS-01", "Cleaning Supplies", 22, 10, usd("3.40"), usd("74.80"), "Central Warehouse", "CleanSupply Inc.", "2026-08-25"},
			{"LED Bulbs (A19)", "MNT-LB-01", "Maintenance", 48, 24, usd("2.75"), usd("132.00"), "Central Warehouse", "BrightHome Supply", "2026-06-18"},
		}),

		define(ReportTypeRevenueAnalysis, "Revenue Analysis", []RevenueAnalysisRow{
			{"2026-08-01", "Villa Caldera", "Airbnb", 4, 26, usd("17810.00"), usd("534.30"), usd("17275.70")},
			{"2026-08-01", "Villa Caldera", "Direct", 2, 12, usd("8220.00"), usd("0.00"), usd("8220.00")},
			{"2026-08-01", "Casa Azul", "Booking.com", 5, 21, usd("6510.00"), usd("976.50"), usd("5533.50")},
			{"2026-09-01", "Harbor Loft", "Direct", 6, 19, usd("4275.00"), usd("0.00"), usd("4275.00")},
			{"2026-09-01", "Pine Ridge Cabin", "Airbnb", 3, 11, usd("2640.00"), usd("79.20"), usd("2560.80")},
		}, withDateField("month")),

		define(ReportTypeExpenseTracking, "Expense Tracking", []ExpenseRow{
			{"E-9001", "2026-09-01", "Villa Caldera", "Utilities", "Aegean Power", "September electricity", usd("612.40"), "paid"},
			{"E-9002", "2026-09-04", "Casa Azul", "Supplies", "CleanSupply Inc.", "Cleaning supplies restock", usd("188.75"), "paid"},
			{"E-9003", "2026-09-09", "Harbor Loft", "Maintenance", "FixRight Plumbing", "Tap repair, parts and labor", usd("107.40"), "pending"},
			{"E-9004", "2026-09-15", "Villa Caldera", "Landscaping", "Green Thumb", "Garden service, pool area", usd("340.00"), "paid"},
			{"E-9005", "2026-09-30", "Pine Ridge Cabin", "Insurance", "SafeStay Mutual", "Quarterly premium", usd("1250.00"), "scheduled"},
		}, withDateField("date")),

		define(ReportTypeOperationalEfficiency, "Operational Efficiency", []OperationalEfficiencyRow{
			{"Avg turnover time (h)", "Villa Caldera", 3.4, 3.0, 0.4, "below-target", "Q3 2026"},
			{"Avg turnover time (h)", "Casa Azul", 2.1, 2.5, -0.4, "on-target", "Q3 2026"},
			{"Task on-time rate (%)", "Harbor Loft", 88, 95, -7, "below-target", "Q3 2026"},
			{"Maintenance response (h)", "Pine Ridge Cabin", 6.5, 4, 2.5, "below-target", "Q3 2026"},
			{"Guest issue resolution (h)", "Villa Caldera", 1.2, 2, -0.8, "on-target", "Q3 2026"},
		}),

		define(ReportTypeTurnoverMetrics, "Turnover Metrics", []TurnoverMetricsRow{
			{"TO-401", "Villa Caldera", "2026-09-04", "Maria Lopez", 185, 96, 0, "passed"},
			{"TO-402", "Casa Azul", "2026-09-05", "Aisha Khan", 110, 92, 1, "passed"},
			{"TO-403", "Harbor Loft", "2026-09-21", "Maria Lopez", 95, 78, 3, "failed"},
			{"TO-404", "Villa Caldera", "2026-09-27", "Maria Lopez", 200, 94, 1, "passed"},
		}, withDateField("checkoutDate")),

		define(ReportTypeEnergyConsumption, "Energy Consumption", []EnergyConsumptionRow{
			{"Villa Caldera", "2026-07-01", 2840, 0, 9200, usd("781.00"), usd("27.89")},
			{"Villa Caldera", "2026-08-01", 3120, 0, 10100, usd("858.00"), usd("29.59")},
			{"Casa Azul", "2026-08-01", 1460, 0, 5200, usd("352.40"), usd("13.55")},
			{"Pine Ridge Cabin", "2026-08-01", 920, 48, 3100, usd("298.60"), usd("22.97")},
			{"Harbor Loft", "2026-09-01", 610, 22, 2400, usd("171.30"), usd("9.02")},
		}, withDateField("month")),

		define(ReportTypeVendorPerformance, "Vendor Performance", []VendorPerformanceRow{
			{"FixRight Plumbing", "Plumbing", 14, 92.9, 4.6, usd("2380.40"), "preferred", "2026-09-24"},
			{"AquaCare", "Pool", 9, 100, 4.9, usd("1860.00"), "preferred", "2026-09-06"},
			{"Ridge Electric", "Electrical", 5, 60, 3.8, usd("1475.00"), "under-review", "2026-09-28"},
			{"CoolAir Services", "HVAC", 7, 85.7, 4.3, usd("1575.00"), "active", "2026-08-19"},
			{"Green Thumb", "Landscaping", 12, 91.7, 4.5, usd("4080.00"), "active", "2026-09-15"},
		}, withFilterKey(FilterCategory, "serviceCategory")),

		define(ReportTypeComplianceAudit, "Compliance Audit", []ComplianceAuditRow{
			{"CA-11", "Villa Caldera", "Fire Safety", "Smoke detectors tested", "compliant", "Tom Becker", "2026-08-20", "2027-02-20", "All 9 units passed"},
			{"CA-12", "Casa Azul", "Licensing", "Short-term rental permit", "compliant", "Tom Becker", "2026-06-01", "2027-06-01", ""},
			{"CA-13", "Harbor Loft", "Fire Safety", "Extinguisher inspection", "non-compliant", "Tom Becker", "2026-09-14", "2026-10-14", "Expired tag, kitchen unit; replacement ordered"},
			{"CA-14", "Pine Ridge Cabin", "Health", "Hot tub water quality", "pending", "Aisha Khan", "2026-09-28", "2026-10-28", "Retest after heater repair, see \"WO-203\""},
		}, withDateField("lastInspected"), withFilterKey(FilterAssignee, "inspector")),
	}
}
