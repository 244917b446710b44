package devserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Reference data served by the read-only nutrition endpoints. A subset
// of the hosted catalogue, enough for development and demos.
var (
	equations = []Equation{
		{ID: 1, Name: "Mifflin-St Jeor", Code: "mifflin", Category: "energy", Description: "Resting energy expenditure from weight, height, age, and sex."},
		{ID: 2, Name: "Harris-Benedict", Code: "harris", Category: "energy", Description: "Classic basal metabolic rate estimate."},
		{ID: 3, Name: "Penn State 2003b", Code: "pennstate", Category: "energy", Description: "Ventilated patient energy expenditure."},
		{ID: 4, Name: "Cockcroft-Gault", Code: "cockcroft", Category: "renal", Description: "Creatinine clearance estimate."},
		{ID: 5, Name: "Ideal Body Weight", Code: "ibw", Category: "anthropometry", Description: "Devine formula ideal body weight."},
	}

	drugCategories = []DrugCategory{
		{ID: 1, Name: "Anticoagulants"},
		{ID: 2, Name: "Diuretics"},
		{ID: 3, Name: "Corticosteroids"},
		{ID: 4, Name: "Antidiabetics"},
	}

	drugs = []Drug{
		{ID: 1, Category: 1, Name: "Warfarin", DrugEffect: "Vitamin K antagonist anticoagulant.", NutritionalImplications: "Keep vitamin K intake consistent; avoid large changes in leafy greens."},
		{ID: 2, Category: 2, Name: "Furosemide", DrugEffect: "Loop diuretic.", NutritionalImplications: "Potassium, magnesium, and thiamine losses; encourage potassium-rich foods."},
		{ID: 3, Category: 2, Name: "Spironolactone", DrugEffect: "Potassium-sparing diuretic.", NutritionalImplications: "Avoid salt substitutes and potassium supplements."},
		{ID: 4, Category: 3, Name: "Prednisone", DrugEffect: "Systemic corticosteroid.", NutritionalImplications: "Hyperglycemia, sodium retention, calcium and vitamin D depletion with long-term use."},
		{ID: 5, Category: 4, Name: "Metformin", DrugEffect: "Biguanide antihyperglycemic.", NutritionalImplications: "Reduces B12 absorption; take with meals to limit GI upset."},
	}

	calculations = []Calculation{
		{ID: 1, Equation: "mifflin", Inputs: map[string]float64{"weight_kg": 72, "height_cm": 175, "age": 34}, Result: 1648.75, CreatedAt: "2026-01-12T09:30:00Z"},
		{ID: 2, Equation: "ibw", Inputs: map[string]float64{"height_cm": 175}, Result: 70.9, CreatedAt: "2026-01-12T09:32:00Z"},
	}
)

// ListEquations handles GET /nutritions/equations/.
func (s *Server) ListEquations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, equations)
}

// ListCalculations handles GET /nutritions/calculations/.
func (s *Server) ListCalculations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, calculations)
}

// ListDrugCategories handles GET /nutritions/drug-categories/.
func (s *Server) ListDrugCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, drugCategories)
}

// ListDrugsByCategory handles GET /nutritions/drugs/{categoryID}.
func (s *Server) ListDrugsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.Atoi(chi.URLParam(r, "categoryID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	result := make([]Drug, 0)
	for _, d := range drugs {
		if d.Category == categoryID {
			result = append(result, d)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

// SearchDrugs handles GET /nutritions/drugs/?search=.
func (s *Server) SearchDrugs(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))

	result := make([]Drug, 0)
	for _, d := range drugs {
		if query == "" || strings.Contains(strings.ToLower(d.Name), query) {
			result = append(result, d)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

// GetDrugDetails handles GET /nutritions/drug-details/{drugID}.
func (s *Server) GetDrugDetails(w http.ResponseWriter, r *http.Request) {
	drugID, err := strconv.Atoi(chi.URLParam(r, "drugID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid drug id")
		return
	}

	for _, d := range drugs {
		if d.ID == drugID {
			writeJSON(w, http.StatusOK, d)
			return
		}
	}
	writeError(w, http.StatusNotFound, "drug not found")
}
