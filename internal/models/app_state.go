package models

// DialogKind names the editor dialog the back office has open.
type DialogKind string

const (
	DialogNone       DialogKind = ""
	DialogClient     DialogKind = "client"
	DialogSale       DialogKind = "sale"
	DialogFinancial  DialogKind = "financial"
	DialogApproval   DialogKind = "approval"
	DialogCalculator DialogKind = "calculator"
)

// AppState is the presentation state of one back-office session. It is passed
// explicitly to whatever renders the views; nothing here is shared between sessions.
type AppState struct {
	ActiveTab      string     `json:"active_tab"`
	ActiveSalesTab string     `json:"active_sales_tab"`
	Dialog         DialogKind `json:"dialog"`
	EditingID      string     `json:"editing_id,omitempty"`
	SelectionMode  bool       `json:"selection_mode"`
	SelectedSales  []string   `json:"selected_sales"`
	Search         string     `json:"search"`
	TravelFilter   DateWindow `json:"travel_filter"`
	SaleFilter     DateWindow `json:"sale_filter"`
	CalculatorBase string     `json:"calculator_base"`
}

// DateWindow is an inclusive YYYY-MM-DD interval; blank bounds are open.
type DateWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewAppState returns the state a freshly signed-in user lands on.
func NewAppState() AppState {
	return AppState{ActiveTab: "dashboard", ActiveSalesTab: "sales", SelectedSales: []string{}}
}

// IsSelected reports whether the sale id is in the multi-select set.
func (s *AppState) IsSelected(id string) bool {
	for _, v := range s.SelectedSales {
		if v == id {
			return true
		}
	}
	return false
}

// ToggleSelection adds id to the selection or removes it when already present.
func (s *AppState) ToggleSelection(id string) {
	for i, v := range s.SelectedSales {
		if v == id {
			s.SelectedSales = append(s.SelectedSales[:i], s.SelectedSales[i+1:]...)
			return
		}
	}
	s.SelectedSales = append(s.SelectedSales, id)
}

// SelectAll selects every visible id, or clears the selection when all of them
// are already selected.
func (s *AppState) SelectAll(visible []string) {
	if len(s.SelectedSales) == len(visible) {
		s.SelectedSales = []string{}
		return
	}
	s.SelectedSales = append([]string(nil), visible...)
}

// ClearSelection leaves multi-select mode with nothing selected.
func (s *AppState) ClearSelection() {
	s.SelectedSales = []string{}
	s.SelectionMode = false
}

func (s *AppState) OpenDialog(kind DialogKind, editingID string) {
	s.Dialog = kind
	s.EditingID = editingID
}

func (s *AppState) CloseDialog() {
	s.Dialog = DialogNone
	s.EditingID = ""
}
