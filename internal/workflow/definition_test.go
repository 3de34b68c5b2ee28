package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepIDsAreUniquePerKind(t *testing.T) {
	for _, kind := range []Kind{KindExport, KindImport} {
		seen := map[string]bool{}
		for _, step := range StepsFor(kind) {
			assert.False(t, seen[step.ID], "duplicate step id %s in %s table", step.ID, kind)
			seen[step.ID] = true
		}
	}
}

func TestImportStepsCarryPrefix(t *testing.T) {
	for _, step := range StepsFor(KindImport) {
		assert.True(t, strings.HasPrefix(step.ID, ImportStatusPrefix),
			"import step %s missing prefix", step.ID)
	}
	for _, step := range StepsFor(KindExport) {
		assert.False(t, strings.HasPrefix(step.ID, ImportStatusPrefix),
			"export step %s must not carry the import prefix", step.ID)
	}
}

func TestEveryStepHasAllowedRoles(t *testing.T) {
	for _, kind := range []Kind{KindExport, KindImport} {
		for _, step := range StepsFor(kind) {
			assert.NotEmpty(t, step.AllowedRoles, "step %s has no allowed roles", step.ID)
			for _, role := range step.AllowedRoles {
				assert.True(t, role.Valid(), "step %s references unknown role %s", step.ID, role)
			}
		}
	}
}

func TestStepIndex(t *testing.T) {
	assert.Equal(t, 0, StepIndex(KindExport, "PROCUREMENT_INITIATED"))
	assert.Equal(t, 1, StepIndex(KindExport, "SUPPLIER_SELECTED"))
	assert.Equal(t, 0, StepIndex(KindImport, "IMPORT_REQUIREMENT_RAISED"))

	// Ids never cross tables
	assert.Equal(t, -1, StepIndex(KindExport, "IMPORT_REQUIREMENT_RAISED"))
	assert.Equal(t, -1, StepIndex(KindImport, "PROCUREMENT_INITIATED"))
	assert.Equal(t, -1, StepIndex(KindExport, "BOGUS_STATE"))
}

func TestColorFor(t *testing.T) {
	// Lookup works regardless of which kind owns the id
	assert.Equal(t, "blue", ColorFor("PROCUREMENT_INITIATED"))
	assert.Equal(t, "emerald", ColorFor("IMPORT_COMPLETED"))
	assert.Equal(t, DefaultColor, ColorFor("BOGUS_STATE"))
}

func TestKindOfStatusPrefixConvention(t *testing.T) {
	assert.Equal(t, KindImport, KindOfStatus("IMPORT_PO_ISSUED"))
	assert.Equal(t, KindImport, KindOfStatus("IMPORT_ANYTHING"))
	assert.Equal(t, KindExport, KindOfStatus("SHIPPED"))
	assert.Equal(t, KindExport, KindOfStatus("BOGUS_STATE"))
}

func TestRoleSetContains(t *testing.T) {
	set := RoleSet{RoleFinance, RoleCustomsBroker}
	assert.True(t, set.Contains(RoleFinance))
	assert.False(t, set.Contains(RoleExporterAdmin))
	assert.False(t, RoleSet{}.Contains(RoleFinance))
}
