package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ems/models"
)

func TestHiringPipeline(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	dept, err := e.Employees.CreateDepartment(ctx, models.DepartmentReq{Name: "Finance"})
	require.NoError(t, err)
	posting, err := e.Recruitment.CreatePosting(ctx, models.JobPostingReq{Title: "Accountant", DepartmentID: &dept.ID})
	require.NoError(t, err)
	assert.Equal(t, models.JobOpen, posting.Status)
	assert.Equal(t, "full_time", posting.EmploymentType)

	a, err := e.Recruitment.Apply(ctx, posting.ID, models.ApplicantReq{Name: "Maria Clara dela Cruz", Email: "Maria@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.StageApplied, a.Stage)

	_, err = e.Recruitment.Apply(ctx, posting.ID, models.ApplicantReq{Name: "Maria Again", Email: "maria@example.com"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = e.Recruitment.Hire(ctx, a.ID, models.HireReq{BaseSalary: 3500000})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	_, err = e.Recruitment.Move(ctx, a.ID, models.StageReq{Stage: models.StageOffer})
	assert.ErrorIs(t, err, models.ErrInvalidState)
	_, err = e.Recruitment.Move(ctx, a.ID, models.StageReq{Stage: "ghosted"})
	assertValidation(t, err, "stage")

	for _, stage := range []models.Stage{models.StageScreening, models.StageInterview, models.StageOffer} {
		a, err = e.Recruitment.Move(ctx, a.ID, models.StageReq{Stage: stage, Notes: "passed " + string(stage)})
		require.NoError(t, err)
		assert.Equal(t, stage, a.Stage)
	}
	assert.Equal(t, "passed offer", a.Notes)

	_, err = e.Recruitment.Move(ctx, a.ID, models.StageReq{Stage: models.StageHired})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	emp, err := e.Recruitment.Hire(ctx, a.ID, models.HireReq{BaseSalary: 3500000, HireDate: "2026-11-02"})
	require.NoError(t, err)
	assert.Equal(t, "EMP001", emp.EmployeeNo)
	assert.Equal(t, "Maria Clara dela", emp.FirstName)
	assert.Equal(t, "Cruz", emp.LastName)
	assert.Equal(t, "maria@example.com", emp.Email)
	assert.Equal(t, "Accountant", emp.Position)
	require.NotNil(t, emp.DepartmentID)
	assert.Equal(t, dept.ID, *emp.DepartmentID)

	hired, err := e.Recruitment.GetApplicant(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageHired, hired.Stage)
	require.NotNil(t, hired.HiredEmployeeID)
	assert.Equal(t, emp.ID, *hired.HiredEmployeeID)

	_, err = e.Recruitment.Hire(ctx, a.ID, models.HireReq{})
	assert.ErrorIs(t, err, models.ErrInvalidState)
	_, err = e.Recruitment.Move(ctx, a.ID, models.StageReq{Stage: models.StageRejected})
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestHireRollsBackOnDuplicateEmployee(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.employee(t, "taken@example.com", 0, 0)

	posting, err := e.Recruitment.CreatePosting(ctx, models.JobPostingReq{Title: "Driver"})
	require.NoError(t, err)
	a, err := e.Recruitment.Apply(ctx, posting.ID, models.ApplicantReq{Name: "Jo Ramos", Email: "taken@example.com"})
	require.NoError(t, err)
	for _, stage := range []models.Stage{models.StageScreening, models.StageInterview, models.StageOffer} {
		_, err = e.Recruitment.Move(ctx, a.ID, models.StageReq{Stage: stage})
		require.NoError(t, err)
	}

	_, err = e.Recruitment.Hire(ctx, a.ID, models.HireReq{})
	assert.ErrorIs(t, err, models.ErrConflict)

	still, err := e.Recruitment.GetApplicant(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageOffer, still.Stage)
}

func TestClosedPostingRejectsApplicants(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	posting, err := e.Recruitment.CreatePosting(ctx, models.JobPostingReq{Title: "Intern", EmploymentType: "intern", Status: models.JobClosed})
	require.NoError(t, err)

	_, err = e.Recruitment.Apply(ctx, posting.ID, models.ApplicantReq{Name: "Lee", Email: "lee@example.com"})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	_, err = e.Recruitment.CreatePosting(ctx, models.JobPostingReq{Title: "Chef", EmploymentType: "gig"})
	assertValidation(t, err, "employment_type")

	open, err := e.Recruitment.ListPostings(ctx, models.JobOpen)
	require.NoError(t, err)
	assert.Empty(t, open)

	require.NoError(t, e.Recruitment.DeletePosting(ctx, posting.ID))
}

func TestHireSingleWordName(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	posting, err := e.Recruitment.CreatePosting(ctx, models.JobPostingReq{Title: "Driver"})
	require.NoError(t, err)
	a, err := e.Recruitment.Apply(ctx, posting.ID, models.ApplicantReq{Name: "Madonna", Email: "madonna@example.com"})
	require.NoError(t, err)
	for _, stage := range []models.Stage{models.StageScreening, models.StageInterview, models.StageOffer} {
		_, err = e.Recruitment.Move(ctx, a.ID, models.StageReq{Stage: stage})
		require.NoError(t, err)
	}

	emp, err := e.Recruitment.Hire(ctx, a.ID, models.HireReq{})
	require.NoError(t, err)
	assert.Equal(t, "Madonna", emp.FirstName)
	assert.Equal(t, "Madonna", emp.LastName)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name, first, last string
	}{
		{"", "", ""},
		{"Madonna", "Madonna", "Madonna"},
		{"Jo Ramos", "Jo", "Ramos"},
		{"  Maria Clara  dela Cruz ", "Maria Clara dela", "Cruz"},
	}
	for _, tt := range tests {
		first, last := splitName(tt.name)
		assert.Equal(t, tt.first, first, tt.name)
		assert.Equal(t, tt.last, last, tt.name)
	}
}
