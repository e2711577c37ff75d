package domain

import "errors"

var (
	ErrDrinkNotFound     = errors.New("drink not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrOptionNotFound    = errors.New("option not found")
	ErrRuleNotFound      = errors.New("rule not found")
	ErrLogNotFound       = errors.New("recommendation log not found")
	ErrAdminNotFound     = errors.New("admin not found")
	ErrCacheMiss         = errors.New("cache miss")
	ErrInvalidID         = errors.New("invalid id")
	ErrEmptyAnswers      = errors.New("answers are required")
	ErrInvalidFeedback   = errors.New("feedback must be 0 or 1")
	ErrInvalidShareCode  = errors.New("invalid share code")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrSessionRequired   = errors.New("session id is required")
	ErrUnavailable       = errors.New("recommendation service temporarily unavailable")

	ErrDrinkNameRequired     = errors.New("drink name is required")
	ErrInvalidPrice          = errors.New("price cannot be negative")
	ErrInvalidAlcohol        = errors.New("alcohol content must be between 0 and 100")
	ErrCategoryNameRequired  = errors.New("category name is required")
	ErrQuestionTitleRequired = errors.New("question title is required")
	ErrInvalidQuestionType   = errors.New("question type must be single or multiple")
	ErrOptionContentRequired = errors.New("option content is required")
	ErrInvalidOptionWeight   = errors.New("option weight must be between 0.10 and 2.00")

	ErrRuleNameRequired       = errors.New("rule name is required")
	ErrRuleNameTaken          = errors.New("rule name already exists")
	ErrRuleCombinationEmpty   = errors.New("option combination is required")
	ErrRuleCombinationInvalid = errors.New("option combination must be a JSON array of option ids")
	ErrRuleTargetsEmpty       = errors.New("target drinks are required")
	ErrRuleTargetsInvalid     = errors.New("target drinks must be comma separated drink ids")
	ErrRuleInvalidScore       = errors.New("match score must be between 0 and 100")
	ErrRuleInvalidMinMatch    = errors.New("min match count must be at least 1")
	ErrRuleInvalidCondition   = errors.New("condition type must be exact, partial or fuzzy")
	ErrRuleInvalidPriority    = errors.New("priority level cannot be negative")
)

// IsValidation reports whether err is a client input error.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is a missing-entity error.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var notFoundErrors = []error{
	ErrDrinkNotFound, ErrCategoryNotFound, ErrQuestionNotFound, ErrOptionNotFound,
	ErrRuleNotFound, ErrLogNotFound, ErrAdminNotFound,
}

var validationErrors = []error{
	ErrInvalidID, ErrEmptyAnswers, ErrInvalidFeedback, ErrInvalidShareCode, ErrSessionRequired,
	ErrDrinkNameRequired, ErrInvalidPrice, ErrInvalidAlcohol, ErrCategoryNameRequired,
	ErrQuestionTitleRequired, ErrInvalidQuestionType, ErrOptionContentRequired, ErrInvalidOptionWeight,
	ErrRuleNameRequired, ErrRuleNameTaken, ErrRuleCombinationEmpty, ErrRuleCombinationInvalid,
	ErrRuleTargetsEmpty, ErrRuleTargetsInvalid, ErrRuleInvalidScore, ErrRuleInvalidMinMatch,
	ErrRuleInvalidCondition, ErrRuleInvalidPriority,
}
