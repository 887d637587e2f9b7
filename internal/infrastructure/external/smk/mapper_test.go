package smk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
)

func TestDecodeDocument_Parsing(t *testing.T) {
	jsonData := `{
    "code": "0730",
    "smkVersion": "new",
    "name": "Kardiologia",
    "modules": [
        {
            "code": "MOD-BASIC",
            "name": "Moduł podstawowy",
            "moduleType": "basic",
            "duration": {"years": 2, "months": 0},
            "internships": [
                {"id": "INT-1", "name": "Oddział chorób wewnętrznych", "durationWeeks": 16}
            ],
            "courses": [
                {"id": "CRS-1", "name": "Kurs wprowadzający"}
            ],
            "procedures": [
                {"id": "PROC-1", "code": "89.52", "name": "EKG", "requiredCountA": 30, "requiredCountB": 10}
            ],
            "medicalShifts": {"hoursPerWeek": 10.083},
            "selfEducation": {"daysPerYear": 6}
        },
        {
            "code": "MOD-SPEC",
            "name": "Moduł specjalistyczny",
            "moduleType": "specialistic",
            "durationMonths": 36
        }
    ]
}`

	dto, err := DecodeDocument([]byte(jsonData))
	require.NoError(t, err)

	assert.Equal(t, "0730", dto.Code)
	assert.Equal(t, "new", dto.SmkVersion)
	assert.Equal(t, "Kardiologia", dto.Name)
	require.Len(t, dto.Modules, 2)

	basic := dto.Modules[0]
	assert.Equal(t, 24, basic.Duration.TotalMonths())
	assert.Len(t, basic.Internships, 1)
	assert.Equal(t, 16, basic.Internships[0].DurationWeeks)
	assert.Equal(t, 30, basic.Procedures[0].RequiredCountA)
	assert.Equal(t, 10.083, basic.MedicalShifts.HoursPerWeek)
	assert.Equal(t, 6, basic.SelfEducation.DaysPerYear)

	spec := dto.Modules[1]
	assert.Nil(t, spec.Duration)
	assert.Equal(t, 36, spec.DurationMonths)
}

func TestDecodeDocument_InvalidJSON(t *testing.T) {
	_, err := DecodeDocument([]byte(`{"code": "0730",`))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestMapper_TemplateFromDocument(t *testing.T) {
	mapper := NewMapper()

	dto := &DocumentDTO{
		Code:       "0730",
		SmkVersion: "new",
		Name:       "Kardiologia",
		Modules: []ModuleDTO{
			{
				Code:       "MOD-BASIC",
				Name:       "Moduł podstawowy",
				ModuleType: "basic",
				Duration:   &DurationDTO{Years: 2},
				Internships: []InternshipDTO{
					{ID: "INT-1", Name: "Interna", DurationWeeks: 16},
				},
				Courses: []CourseDTO{
					{ID: "CRS-1", Name: "Kurs wprowadzający"},
				},
				Procedures: []ProcedureDTO{
					{ID: "PROC-1", Code: "89.52", Name: "EKG", RequiredCountA: 30, RequiredCountB: 10},
				},
				MedicalShifts: &MedicalShiftsDTO{HoursPerWeek: 10.083},
				SelfEducation: &SelfEducationDTO{DaysPerYear: 6},
			},
		},
	}

	tmpl, err := mapper.TemplateFromDocument(dto)
	require.NoError(t, err)

	assert.Equal(t, shared.ProgramCode("0730"), tmpl.ProgramCode)
	assert.Equal(t, shared.SmkVersionNew, tmpl.SmkVersion)
	require.Len(t, tmpl.Modules, 1)

	mod := tmpl.Modules[0]
	// 24 months at 365/12 truncates to 730 days.
	assert.Equal(t, 730, mod.DurationDays)
	// Weeks convert to days when the day form is absent.
	assert.Equal(t, 16*7, mod.Internships[0].DurationDays)
	// Omitted "required" means obligatory.
	assert.True(t, mod.Courses[0].Required)
	require.NotNil(t, mod.MedicalShifts)
	assert.Equal(t, 10.083, mod.MedicalShifts.HoursPerWeek)
}

func TestMapper_DurationFormPrecedence(t *testing.T) {
	mapper := NewMapper()

	dto := &DocumentDTO{
		Code:       "0701",
		SmkVersion: "old",
		Name:       "Chirurgia ogólna",
		Modules: []ModuleDTO{
			{
				Code:           "MOD-1",
				Name:           "Moduł",
				ModuleType:     "specialistic",
				Duration:       &DurationDTO{Years: 1},
				DurationMonths: 48,
			},
		},
	}

	tmpl, err := mapper.TemplateFromDocument(dto)
	require.NoError(t, err)

	// Structured form wins over the flat month count.
	assert.Equal(t, 12*365/12, tmpl.Modules[0].DurationDays)
}

func TestMapper_OptionalCourseAndExplicitDayForm(t *testing.T) {
	mapper := NewMapper()
	optional := false

	dto := &DocumentDTO{
		Code:       "0701",
		SmkVersion: "old",
		Name:       "Chirurgia ogólna",
		Modules: []ModuleDTO{
			{
				Code:           "MOD-1",
				Name:           "Moduł",
				ModuleType:     "basic",
				DurationMonths: 24,
				Internships: []InternshipDTO{
					{ID: "INT-1", Name: "Blok operacyjny", DurationDays: 45, DurationWeeks: 6},
				},
				Courses: []CourseDTO{
					{ID: "CRS-1", Name: "Kurs dodatkowy", Required: &optional},
				},
			},
		},
	}

	tmpl, err := mapper.TemplateFromDocument(dto)
	require.NoError(t, err)

	mod := tmpl.Modules[0]
	// Explicit day form wins over the week form.
	assert.Equal(t, 45, mod.Internships[0].DurationDays)
	assert.False(t, mod.Courses[0].Required)
}

func TestMapper_MalformedDocuments(t *testing.T) {
	mapper := NewMapper()

	tests := []struct {
		name string
		dto  *DocumentDTO
	}{
		{
			name: "invalid programme code",
			dto: &DocumentDTO{
				Code:       "abc",
				SmkVersion: "new",
				Name:       "X",
				Modules:    []ModuleDTO{{Code: "M", Name: "M", ModuleType: "basic", DurationMonths: 12}},
			},
		},
		{
			name: "unknown smk version",
			dto: &DocumentDTO{
				Code:       "0730",
				SmkVersion: "v3",
				Name:       "X",
				Modules:    []ModuleDTO{{Code: "M", Name: "M", ModuleType: "basic", DurationMonths: 12}},
			},
		},
		{
			name: "no modules",
			dto: &DocumentDTO{
				Code:       "0730",
				SmkVersion: "new",
				Name:       "X",
			},
		},
		{
			name: "module without duration",
			dto: &DocumentDTO{
				Code:       "0730",
				SmkVersion: "new",
				Name:       "X",
				Modules:    []ModuleDTO{{Code: "M", Name: "M", ModuleType: "basic"}},
			},
		},
		{
			name: "procedure without code",
			dto: &DocumentDTO{
				Code:       "0730",
				SmkVersion: "new",
				Name:       "X",
				Modules: []ModuleDTO{{
					Code: "M", Name: "M", ModuleType: "basic", DurationMonths: 12,
					Procedures: []ProcedureDTO{{ID: "PROC-1", Name: "EKG"}},
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapper.TemplateFromDocument(tt.dto)
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}

	_, err := mapper.TemplateFromDocument(nil)
	assert.ErrorIs(t, err, ErrNilDTO)
}
