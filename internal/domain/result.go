package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PlantAnalysis is the structured form of one vision model response. Every
// field is optional on the wire; defaults are applied during decoding
// (missing confidence -> "low", missing score -> 5).
type PlantAnalysis struct {
	Identification   *Identification   `json:"identification,omitempty"`
	HealthAssessment *HealthAssessment `json:"healthAssessment,omitempty"`
	ImmediateActions []ImmediateAction `json:"immediateActions,omitempty"`
	CarePlan         *CarePlan         `json:"carePlan,omitempty"`
	FunFact          string            `json:"funFact,omitempty"`
}

type Identification struct {
	CommonName     string `json:"commonName,omitempty"`
	ScientificName string `json:"scientificName,omitempty"`
	Confidence     string `json:"confidence,omitempty"` // "low" | "medium" | "high"
	Notes          string `json:"notes,omitempty"`
}

func (i *Identification) UnmarshalJSON(b []byte) error {
	type alias Identification
	a := alias{Confidence: "low"}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if a.Confidence == "" {
		a.Confidence = "low"
	}
	*i = Identification(a)
	return nil
}

type HealthAssessment struct {
	Score   int           `json:"score"`
	Summary string        `json:"summary,omitempty"`
	Issues  []HealthIssue `json:"issues,omitempty"`
}

func (h *HealthAssessment) UnmarshalJSON(b []byte) error {
	type alias HealthAssessment
	a := alias{Score: 5}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*h = HealthAssessment(a)
	return nil
}

type HealthIssue struct {
	Name         string `json:"name,omitempty"`
	Severity     string `json:"severity,omitempty"`
	Description  string `json:"description,omitempty"`
	AffectedArea string `json:"affectedArea,omitempty"`
}

type ImmediateAction struct {
	Action   string `json:"action,omitempty"`
	Priority string `json:"priority,omitempty"` // "urgent" | "soon" | "when_convenient"
	Detail   string `json:"detail,omitempty"`
}

type CarePlan struct {
	Watering   *WateringPlan   `json:"watering,omitempty"`
	Light      *LightPlan      `json:"light,omitempty"`
	Fertilizer *FertilizerPlan `json:"fertilizer,omitempty"`
	Pruning    *PruningPlan    `json:"pruning,omitempty"`
	Repotting  *RepottingPlan  `json:"repotting,omitempty"`
	Seasonal   string          `json:"seasonal,omitempty"`
}

type WateringPlan struct {
	Frequency string `json:"frequency,omitempty"`
	Amount    string `json:"amount,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type LightPlan struct {
	Ideal      string `json:"ideal,omitempty"`
	Current    string `json:"current,omitempty"`
	Adjustment string `json:"adjustment,omitempty"`
}

type FertilizerPlan struct {
	Type            string `json:"type,omitempty"`
	Frequency       string `json:"frequency,omitempty"`
	NextApplication string `json:"nextApplication,omitempty"`
}

type PruningPlan struct {
	Needed       FlexBool `json:"needed,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	When         string   `json:"when,omitempty"`
}

type RepottingPlan struct {
	Needed             FlexBool `json:"needed,omitempty"`
	Signs              string   `json:"signs,omitempty"`
	RecommendedPotSize string   `json:"recommendedPotSize,omitempty"`
}

// FlexBool accepts both native JSON booleans and the string forms
// "true"/"false" that the model emits intermittently.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "true", `"true"`:
		*f = true
	case "false", `"false"`, "null":
		*f = false
	default:
		return fmt.Errorf("cannot parse %s as boolean", b)
	}
	return nil
}

func (f FlexBool) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}
