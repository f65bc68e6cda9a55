package jobsearch

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jobsight/jobsight-go/internal/model"
)

type searchResponse struct {
	Results []searchResult `json:"results"`
	Count   int            `json:"count"`
}

type searchResult struct {
	ID                flexID        `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Company           displayName   `json:"company"`
	Location          displayName   `json:"location"`
	Category          displayName   `json:"category"`
	SalaryMin         *float64      `json:"salary_min"`
	SalaryMax         *float64      `json:"salary_max"`
	SalaryIsPredicted predictedFlag `json:"salary_is_predicted"`
	ContractType      string        `json:"contract_type"`
	ContractTime      string        `json:"contract_time"`
	Created           string        `json:"created"`
	RedirectURL       string        `json:"redirect_url"`
}

type categoriesResponse struct {
	Results []struct {
		Tag   string `json:"tag"`
		Label string `json:"label"`
	} `json:"results"`
}

func (r searchResult) normalize() model.JobResult {
	job := model.JobResult{
		ID:                string(r.ID),
		Title:             orDefault(r.Title, "No title available"),
		Company:           orDefault(string(r.Company), "Company not specified"),
		Location:          orDefault(string(r.Location), "Location not specified"),
		Description:       orDefault(r.Description, "No description available"),
		SalaryMin:         r.SalaryMin,
		SalaryMax:         r.SalaryMax,
		SalaryIsPredicted: bool(r.SalaryIsPredicted),
		ContractType:      orDefault(r.ContractType, "Not specified"),
		ContractTime:      orDefault(r.ContractTime, "Not specified"),
		Category:          orDefault(string(r.Category), "Other"),
		URL:               r.RedirectURL,
		Created:           r.Created,
	}
	job.SalaryText = model.FormatSalary(job.SalaryMin, job.SalaryMax, job.SalaryIsPredicted)
	return job
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

// displayName accepts either a plain string or an object carrying
// "display_name" (company, location) or "label" (category).
type displayName string

func (d *displayName) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = displayName(s)
		return nil
	}
	if b[0] != '{' {
		return nil
	}

	var obj struct {
		DisplayName string `json:"display_name"`
		Label       string `json:"label"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.DisplayName != "" {
		*d = displayName(obj.DisplayName)
	} else {
		*d = displayName(obj.Label)
	}
	return nil
}

// flexID accepts string or numeric ids.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// predictedFlag accepts true/false, 0/1 and "0"/"1".
type predictedFlag bool

func (p *predictedFlag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	switch s {
	case "", "null":
		*p = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	*p = predictedFlag(v)
	return nil
}
