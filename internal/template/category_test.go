package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"Candidate Name", CategoryPersonal},
		{"EMPLOYEE_ID", CategoryPersonal},
		// "name" is checked before "company"
		{"Company Name", CategoryPersonal},
		{"Employer", CategoryCompany},
		{"Job Title", CategoryPosition},
		{"Reporting Role", CategoryPosition},
		{"Annual Salary", CategoryCompensation},
		{"Hourly Wage", CategoryCompensation},
		{"Proposed Start Date", CategoryDates},
		{"Signing Bonus", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.name))
		})
	}
}

func TestGroup(t *testing.T) {
	vars := []Variable{
		{Name: "Candidate Name"},
		{Name: "Annual Salary"},
		{Name: "Manager", Category: CategoryPosition},
		{Name: "Employee Email"},
	}

	groups := Group(vars)
	assert.Len(t, groups[CategoryPersonal], 2)
	assert.Equal(t, "Candidate Name", groups[CategoryPersonal][0].Name)
	assert.Equal(t, "Employee Email", groups[CategoryPersonal][1].Name)
	assert.Len(t, groups[CategoryCompensation], 1)
	assert.Len(t, groups[CategoryPosition], 1)
	assert.Empty(t, groups[CategoryDates])
}
