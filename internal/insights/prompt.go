package insights

import (
	"fmt"
	"strings"

	"github.com/jobsight/jobsight-go/internal/model"
)

const (
	marketSystemPrompt = "You are an expert recruitment analyst providing insights about job markets. " +
		"Provide concise, actionable insights for recruiters. " +
		"Format your response as plain text with clear paragraphs, not markdown."

	descriptionSystemPrompt = "You are a helpful assistant that summarizes job descriptions concisely."

	maxCompanies      = 10
	promptCompanies   = 5
	maxDescriptionLen = 1000
)

const marketPromptTemplate = `Analyze the job market for %q positions in %q based on the following data:

Total jobs found: %d
Top hiring companies: %s
Contract types available: %s
%s
Provide a concise market summary covering:
1. Market demand and competition level
2. Salary expectations and trends
3. Key skills or qualifications in demand
4. Actionable insights for recruiters

Keep the response under 400 words and focus on practical insights for recruitment professionals.`

const descriptionPromptTemplate = `Summarize this job description in 2-3 sentences, highlighting the key responsibilities and requirements:

%s`

// marketStats is the aggregate view of a job sample fed into the prompt.
type marketStats struct {
	total         int
	companies     []string
	contractTypes []string
	avgMin        float64
	avgMax        float64
	hasMin        bool
	hasMax        bool
}

// collectStats aggregates a sample. Order follows first appearance so the
// same sample always yields the same prompt.
func collectStats(jobs []model.JobResult) marketStats {
	st := marketStats{total: len(jobs)}

	seenCompany := make(map[string]bool)
	seenContract := make(map[string]bool)
	var minSum, maxSum float64
	var minN, maxN int

	for _, j := range jobs {
		if c := j.Company; c != "" && c != "Company not specified" && !seenCompany[c] && len(st.companies) < maxCompanies {
			seenCompany[c] = true
			st.companies = append(st.companies, c)
		}
		if ct := j.ContractType; ct != "" && ct != "Not specified" && !seenContract[ct] {
			seenContract[ct] = true
			st.contractTypes = append(st.contractTypes, ct)
		}
		if j.SalaryMin != nil && *j.SalaryMin > 0 {
			minSum += *j.SalaryMin
			minN++
		}
		if j.SalaryMax != nil && *j.SalaryMax > 0 {
			maxSum += *j.SalaryMax
			maxN++
		}
	}

	if minN > 0 {
		st.avgMin, st.hasMin = minSum/float64(minN), true
	}
	if maxN > 0 {
		st.avgMax, st.hasMax = maxSum/float64(maxN), true
	}
	return st
}

func (st marketStats) salaryLine() string {
	switch {
	case st.hasMin && st.hasMax:
		return fmt.Sprintf("Average salary range: %s - %s\n", model.FormatPounds(st.avgMin), model.FormatPounds(st.avgMax))
	case st.hasMin:
		return fmt.Sprintf("Average minimum salary: %s\n", model.FormatPounds(st.avgMin))
	case st.hasMax:
		return fmt.Sprintf("Average maximum salary: %s\n", model.FormatPounds(st.avgMax))
	default:
		return ""
	}
}

// MarketPrompt builds the user prompt for a market summary. It is a pure
// function of its arguments.
func MarketPrompt(jobTitle, location string, sample []model.JobResult) string {
	st := collectStats(sample)

	companies := "Various companies"
	if len(st.companies) > 0 {
		shown := st.companies
		if len(shown) > promptCompanies {
			shown = shown[:promptCompanies]
		}
		companies = strings.Join(shown, ", ")
	}

	contracts := "Mixed"
	if len(st.contractTypes) > 0 {
		contracts = strings.Join(st.contractTypes, ", ")
	}

	return fmt.Sprintf(marketPromptTemplate, jobTitle, location, st.total, companies, contracts, st.salaryLine())
}

// DescriptionPrompt builds the prompt for a single description summary,
// truncated to the first 1000 characters.
func DescriptionPrompt(description string) string {
	r := []rune(strings.TrimSpace(description))
	if len(r) > maxDescriptionLen {
		r = r[:maxDescriptionLen]
	}
	return fmt.Sprintf(descriptionPromptTemplate, string(r))
}
