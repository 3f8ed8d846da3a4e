package navigation

import "github.com/jask/wastewise/internal/auth"

// Destination names shared with the UI.
const (
	Login     = "Login"
	Signup    = "Signup"
	AdminTabs = "AdminTabs"
	UserTabs  = "UserTabs"
)

func stack(name, title string) Destination {
	return Destination{Name: name, Title: title, Body: title + " Page", Reach: SignedIn, Rule: RuleSignedIn}
}

// Default returns the built-in screen table.
func Default() *Registry {
	r, err := NewRegistry(
		Destination{Name: Login, Title: "Login", Reach: SignedOut, Rule: RuleSignedOut},
		Destination{Name: Signup, Title: "Sign up", Reach: SignedOut, Rule: RuleSignedOut},
		Destination{
			Name:    AdminTabs,
			Title:   "Admin",
			Initial: "HomeDash",
			Tabs: []Tab{
				{Name: "HomeDash", Title: "Home", Body: "Home Dash Page"},
				{Name: "Map", Title: "Map", Body: "Map Page"},
				{Name: "ComplainDash", Title: "Complaints", Body: "Complain dash Page"},
				{Name: "StoreDash", Title: "Store", Body: "Store Dash Page"},
			},
			Reach: RoleOnly(auth.RoleAdmin),
			Rule:  RuleAdmin,
		},
		Destination{
			Name:    UserTabs,
			Title:   "Home",
			Initial: "HomePage",
			Tabs: []Tab{
				{Name: "HomePage", Title: "Home", Body: "Home Page"},
				{Name: "BulkPage", Title: "Bulk", Body: "Bulk Page"},
				{Name: "ComplainPage", Title: "Complaints", Body: "Complain Page"},
				{Name: "StorePage", Title: "Store", Body: "Store Page"},
			},
			Reach: RoleOnly(auth.RoleUser),
			Rule:  RuleUser,
		},
		stack("AddBulkPage", "Add Bulk"),
		stack("AddComplaint", "Add Complaint"),
		stack("ComplainRead", "Complaint"),
		stack("AllComplaints", "All Complaints"),
		stack("ComplaintPending", "Pending Complaints"),
		stack("ComplaintResolve", "Resolved Complaints"),
		stack("ComplaintProcessing", "Processing Complaints"),
		stack("AddProduct", "Add Product"),
		stack("PlaceOrder", "Place Order"),
		stack("UpdateProduct", "Update Product"),
		stack("BulkSchedules", "Bulk Schedules"),
		stack("NormalSchedules", "Normal Schedules"),
		stack("ProfilePage", "Profile"),
		stack("Invoice", "Invoice"),
		stack("OrderList", "Orders"),
		stack("NumOfSmartDustbin", "Smart Dustbins"),
	)
	if err != nil {
		panic(err)
	}
	return r
}
