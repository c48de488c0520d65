package employeeid

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var ErrEmployeeIDInvalid = errors.New("employee_id_invalid")

var employeeIDPattern = regexp.MustCompile(`^-?[0-9]{1,18}$`)

// Parse converts an id captured from a form field or CLI argument. Surrounding
// whitespace is tolerated; anything else that is not a base-10 integer is
// rejected.
func Parse(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || !employeeIDPattern.MatchString(trimmed) {
		return 0, ErrEmployeeIDInvalid
	}
	id, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, ErrEmployeeIDInvalid
	}
	return id, nil
}

// ParsePair parses the employee/supervisor pair of a move request.
func ParsePair(employee string, supervisor string) (int, int, error) {
	employeeID, err := Parse(employee)
	if err != nil {
		return 0, 0, err
	}
	supervisorID, err := Parse(supervisor)
	if err != nil {
		return 0, 0, err
	}
	return employeeID, supervisorID, nil
}
