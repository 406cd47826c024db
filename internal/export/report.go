package export

import "fmt"

// Report is the single user-facing outcome of one export.
type Report struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (r *Result) Report() Report {
	n := len(r.Included)
	if n == 1 {
		return Report{OK: true, Message: "1 image included"}
	}
	return Report{OK: true, Message: fmt.Sprintf("%d images included", n)}
}

// FailureReport turns a Package error into its report.
func FailureReport(err error) Report {
	if err == nil {
		return Report{OK: false, Message: "export failed"}
	}
	return Report{OK: false, Message: err.Error()}
}
