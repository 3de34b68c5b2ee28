package workflow

import "strings"

// Kind classifies a shipment as export or import, which decides the
// ordered step list that governs it
type Kind string

const (
	KindExport Kind = "export"
	KindImport Kind = "import"
)

// ImportStatusPrefix marks every import step id. Shipments created before
// the explicit Kind field existed are classified by this prefix alone.
const ImportStatusPrefix = "IMPORT_"

// DefaultColor is returned for status ids that belong to neither table
const DefaultColor = "slate"

// Step is one entry in a kind's ordered step list
type Step struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Description  string  `json:"description"`
	AllowedRoles RoleSet `json:"allowed_roles"`
	Color        string  `json:"color"`
}

// exportSteps is the canonical export progression. Order matters: the
// position of a step defines completed/current/locked for the timeline.
var exportSteps = []Step{
	{
		ID:           "PROCUREMENT_INITIATED",
		Label:        "Procurement Initiated",
		Description:  "Buyer requirement captured and sourcing started",
		AllowedRoles: RoleSet{RoleExporterAdmin},
		Color:        "blue",
	},
	{
		ID:           "SUPPLIER_SELECTED",
		Label:        "Supplier Selected",
		Description:  "Supplier chosen after quote comparison",
		AllowedRoles: RoleSet{RoleExporterAdmin, RoleExportManager},
		Color:        "blue",
	},
	{
		ID:           "QUOTATION_SENT",
		Label:        "Quotation Sent",
		Description:  "Quotation shared with the buyer",
		AllowedRoles: RoleSet{RoleExportManager},
		Color:        "amber",
	},
	{
		ID:           "PO_RECEIVED",
		Label:        "PO Received",
		Description:  "Purchase order confirmed by the buyer",
		AllowedRoles: RoleSet{RoleExportManager, RoleFinance},
		Color:        "amber",
	},
	{
		ID:           "PI_GENERATED",
		Label:        "PI Generated",
		Description:  "Proforma invoice issued against the PO",
		AllowedRoles: RoleSet{RoleFinance},
		Color:        "amber",
	},
	{
		ID:           "GOODS_READY",
		Label:        "Goods Ready",
		Description:  "Production complete, cargo ready for pickup",
		AllowedRoles: RoleSet{RoleExportManager},
		Color:        "violet",
	},
	{
		ID:           "BOOKING_CONFIRMED",
		Label:        "Booking Confirmed",
		Description:  "Vessel or flight booking confirmed with the carrier",
		AllowedRoles: RoleSet{RoleExportManager, RoleCustomsBroker},
		Color:        "violet",
	},
	{
		ID:           "CUSTOMS_CLEARED",
		Label:        "Customs Cleared",
		Description:  "Export clearance granted, shipping bill filed",
		AllowedRoles: RoleSet{RoleCustomsBroker},
		Color:        "violet",
	},
	{
		ID:           "SHIPPED",
		Label:        "Shipped",
		Description:  "Cargo on board, BL/AWB issued",
		AllowedRoles: RoleSet{RoleExportManager},
		Color:        "sky",
	},
	{
		ID:           "DOCS_COURIERED",
		Label:        "Documents Couriered",
		Description:  "Negotiable documents dispatched to the buyer or bank",
		AllowedRoles: RoleSet{RoleExportManager, RoleFinance},
		Color:        "sky",
	},
	{
		ID:           "PAYMENT_RECEIVED",
		Label:        "Payment Received",
		Description:  "Export proceeds realized",
		AllowedRoles: RoleSet{RoleFinance},
		Color:        "emerald",
	},
	{
		ID:           "EXPORT_COMPLETED",
		Label:        "Completed",
		Description:  "Shipment closed and archived",
		AllowedRoles: RoleSet{RoleExporterAdmin, RoleCompanyAdmin},
		Color:        "emerald",
	},
}

// importSteps is the canonical import progression
var importSteps = []Step{
	{
		ID:           "IMPORT_REQUIREMENT_RAISED",
		Label:        "Requirement Raised",
		Description:  "Internal purchase requirement approved",
		AllowedRoles: RoleSet{RoleCompanyAdmin},
		Color:        "blue",
	},
	{
		ID:           "IMPORT_SUPPLIER_SHORTLISTED",
		Label:        "Supplier Shortlisted",
		Description:  "Overseas suppliers compared and shortlisted",
		AllowedRoles: RoleSet{RoleCompanyAdmin, RoleCompanyAnalyst},
		Color:        "blue",
	},
	{
		ID:           "IMPORT_PO_ISSUED",
		Label:        "PO Issued",
		Description:  "Purchase order issued to the supplier",
		AllowedRoles: RoleSet{RoleCompanyAdmin},
		Color:        "amber",
	},
	{
		ID:           "IMPORT_PI_CONFIRMED",
		Label:        "PI Confirmed",
		Description:  "Supplier proforma invoice accepted",
		AllowedRoles: RoleSet{RoleFinance},
		Color:        "amber",
	},
	{
		ID:           "IMPORT_LC_OPENED",
		Label:        "LC Opened",
		Description:  "Letter of credit opened in supplier's favour",
		AllowedRoles: RoleSet{RoleFinance},
		Color:        "amber",
	},
	{
		ID:           "IMPORT_SHIPMENT_DISPATCHED",
		Label:        "Shipment Dispatched",
		Description:  "Supplier handed cargo to the carrier",
		AllowedRoles: RoleSet{RoleCompanyAnalyst},
		Color:        "violet",
	},
	{
		ID:           "IMPORT_DOCS_RECEIVED",
		Label:        "Documents Received",
		Description:  "Original shipping documents received from the bank",
		AllowedRoles: RoleSet{RoleCompanyAnalyst, RoleFinance},
		Color:        "sky",
	},
	{
		ID:           "IMPORT_CUSTOMS_CLEARANCE",
		Label:        "Customs Clearance",
		Description:  "Bill of entry filed, duty assessed and paid",
		AllowedRoles: RoleSet{RoleCustomsBroker},
		Color:        "violet",
	},
	{
		ID:           "IMPORT_GOODS_RECEIVED",
		Label:        "Goods Received",
		Description:  "Cargo delivered and inspected at the warehouse",
		AllowedRoles: RoleSet{RoleCompanyAdmin, RoleCompanyAnalyst},
		Color:        "sky",
	},
	{
		ID:           "IMPORT_PAYMENT_SETTLED",
		Label:        "Payment Settled",
		Description:  "Supplier payment settled and LC retired",
		AllowedRoles: RoleSet{RoleFinance},
		Color:        "emerald",
	},
	{
		ID:           "IMPORT_COMPLETED",
		Label:        "Completed",
		Description:  "Import file closed and archived",
		AllowedRoles: RoleSet{RoleCompanyAdmin},
		Color:        "emerald",
	},
}

// StepsFor returns the ordered step list governing the given kind.
// The returned slice is shared, read-only configuration.
func StepsFor(kind Kind) []Step {
	if kind == KindImport {
		return importSteps
	}
	return exportSteps
}

// StepIndex returns the zero-based position of stateID within kind's
// step list, or -1 when the id does not belong to that list
func StepIndex(kind Kind, stateID string) int {
	for i, step := range StepsFor(kind) {
		if step.ID == stateID {
			return i
		}
	}
	return -1
}

// StepFor returns the step definition for stateID within kind's list
func StepFor(kind Kind, stateID string) (Step, bool) {
	idx := StepIndex(kind, stateID)
	if idx < 0 {
		return Step{}, false
	}
	return StepsFor(kind)[idx], true
}

// ColorFor returns the color category of the step owning stateID,
// searching both tables since callers may not know the kind up front
func ColorFor(stateID string) string {
	for _, table := range [][]Step{exportSteps, importSteps} {
		for _, step := range table {
			if step.ID == stateID {
				return step.Color
			}
		}
	}
	return DefaultColor
}

// KindOfStatus classifies a status id by the IMPORT_ prefix convention.
// Kept as the migration fallback for records without an explicit kind.
func KindOfStatus(stateID string) Kind {
	if strings.HasPrefix(stateID, ImportStatusPrefix) {
		return KindImport
	}
	return KindExport
}
