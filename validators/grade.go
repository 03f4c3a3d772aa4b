package validators

import "errors"

var (
	ErrGradeCourseEmpty   = errors.New("course name can't be empty")
	ErrGradeScoreInvalid  = errors.New("score must be between 0 and the max score")
	ErrGradeWeightInvalid = errors.New("weight must be between 0 and 100")
)

func GradeValidator(course string, score, maxScore, weight float64) error {
	if course == "" {
		return ErrGradeCourseEmpty
	}

	if maxScore <= 0 || score < 0 || score > maxScore {
		return ErrGradeScoreInvalid
	}

	if weight < 0 || weight > 100 {
		return ErrGradeWeightInvalid
	}

	return nil
}
