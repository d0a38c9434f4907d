package metrics

// Grade is a clinical stenosis severity classification.
type Grade string

const (
	GradeNormal   Grade = "normal"
	GradeMild     Grade = "mild"
	GradeModerate Grade = "moderate"
	GradeSevere   Grade = "severe"
)

// Thresholds is the classification table: a grade applies when the gradient
// or velocity exceeds its bound, or the orifice area falls below its bound.
// The values are configuration, not physics; defaults follow the ACC/AHA
// guideline bands.
type Thresholds struct {
	SevereGradient   float64 `yaml:"severe_gradient_mmhg"`
	SevereVelocity   float64 `yaml:"severe_velocity_cm_s"`
	SevereEOA        float64 `yaml:"severe_eoa_cm2"`
	ModerateGradient float64 `yaml:"moderate_gradient_mmhg"`
	ModerateVelocity float64 `yaml:"moderate_velocity_cm_s"`
	ModerateEOA      float64 `yaml:"moderate_eoa_cm2"`
	MildGradient     float64 `yaml:"mild_gradient_mmhg"`
	MildVelocity     float64 `yaml:"mild_velocity_cm_s"`
	MildEOA          float64 `yaml:"mild_eoa_cm2"`
}

// DefaultThresholds returns the ACC/AHA guideline bands.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SevereGradient: 40, SevereVelocity: 400, SevereEOA: 1.0,
		ModerateGradient: 25, ModerateVelocity: 300, ModerateEOA: 1.5,
		MildGradient: 10, MildVelocity: 200, MildEOA: 2.0,
	}
}

// Classify grades a valve from mean gradient (mmHg), peak velocity (cm/s),
// and effective orifice area (cm²).
func (t Thresholds) Classify(gradient, velocity, eoa float64) Grade {
	switch {
	case gradient > t.SevereGradient || velocity > t.SevereVelocity || eoa < t.SevereEOA:
		return GradeSevere
	case gradient > t.ModerateGradient || velocity > t.ModerateVelocity || eoa < t.ModerateEOA:
		return GradeModerate
	case gradient > t.MildGradient || velocity > t.MildVelocity || eoa < t.MildEOA:
		return GradeMild
	default:
		return GradeNormal
	}
}
