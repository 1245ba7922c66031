package ports

import "go.trai.ch/recomp/internal/core/domain"

// Translator turns the source bytes of one unit into a component tree.
//
// A positioned syntax problem is reported as a *domain.TranslationError.
// A tree that parses but is structurally unusable is reported with an error
// matching domain.ErrInvalidComponent.
//
//go:generate mockgen -source=translator.go -destination=mocks/mock_translator.go -package=mocks
type Translator interface {
	Translate(source []byte) (*domain.ComponentTree, error)
}
