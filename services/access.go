package services

import (
	"fmt"

	"ems/models"
	"ems/utils"
)

// ownOrStaff allows staff, the employee themself, and internal callers (nil actor).
func ownOrStaff(actor *utils.Claims, employeeID string) error {
	if actor == nil || actor.Role.Staff() {
		return nil
	}
	if actor.EmployeeID != "" && actor.EmployeeID == employeeID {
		return nil
	}
	return fmt.Errorf("%w: not allowed to access another employee's records", models.ErrForbidden)
}

// scopeEmployee returns the employee id a listing must be restricted to.
// Staff may pick any (or none); everyone else is pinned to their own.
func scopeEmployee(actor *utils.Claims, requested string) (string, error) {
	if actor == nil || actor.Role.Staff() {
		return requested, nil
	}
	if actor.EmployeeID == "" {
		return "", fmt.Errorf("%w: user is not linked to an employee", models.ErrForbidden)
	}
	if requested != "" && requested != actor.EmployeeID {
		return "", fmt.Errorf("%w: not allowed to access another employee's records", models.ErrForbidden)
	}
	return actor.EmployeeID, nil
}
