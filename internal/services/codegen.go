package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/fsdevblog/shortlink/internal/models"
	"github.com/fsdevblog/shortlink/internal/repositories"
)

// DefaultCodeGenAttempts сколько кандидатов перебирается, прежде чем сдаться.
const DefaultCodeGenAttempts = 10

// errCodeTaken возвращается из claim, когда код успели занять между проверкой и вставкой.
var errCodeTaken = errors.New("short code already taken")

// CodeSource выдает кандидата в короткие коды.
type CodeSource func() string

// RandomHexCode первые 8 hex символов случайного UUID: 16^8 ≈ 4.3 млрд вариантов.
func RandomHexCode() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return hex[:models.ShortURLLength]
}

type CodeGeneratorOptions struct {
	Source      CodeSource
	MaxAttempts int
}

// CodeGenerator подбирает свободный короткий код.
type CodeGenerator struct {
	source      CodeSource
	maxAttempts int
}

func NewCodeGenerator(opts ...func(*CodeGeneratorOptions)) *CodeGenerator {
	options := CodeGeneratorOptions{
		Source:      RandomHexCode,
		MaxAttempts: DefaultCodeGenAttempts,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxAttempts <= 0 {
		options.MaxAttempts = DefaultCodeGenAttempts
	}
	if options.Source == nil {
		options.Source = RandomHexCode
	}
	return &CodeGenerator{source: options.Source, maxAttempts: options.MaxAttempts}
}

// Allocate подбирает код, которого нет в links, и передает его в claim.
// Кандидат, уже занятый в хранилище, или код, для которого claim вернул errCodeTaken,
// отбрасывается, и берется следующий. Если claim == nil, свободный код просто возвращается.
//
// Параметры:
//   - ctx: контекст выполнения
//   - links: репозиторий, в котором проверяется уникальность
//   - claim: функция, закрепляющая код за новой записью
//
// Возвращает:
//   - string: закрепленный код
//   - error: ErrCapacityExceeded, если за maxAttempts попыток код не найден, или ошибка claim
func (g *CodeGenerator) Allocate(
	ctx context.Context,
	links repositories.LinkRepository,
	claim func(code string) error,
) (string, error) {
	for range g.maxAttempts {
		code := g.source()

		exists, err := links.ExistsShortURL(ctx, code)
		if err != nil {
			return "", errors.Wrapf(ErrUnknown, "check short url %s: %s", code, err.Error())
		}
		if exists {
			continue
		}
		if claim == nil {
			return code, nil
		}

		claimErr := claim(code)
		if claimErr == nil {
			return code, nil
		}
		if errors.Is(claimErr, errCodeTaken) {
			continue
		}
		return "", claimErr
	}
	return "", errors.Wrapf(ErrCapacityExceeded, "no free code after %d attempts", g.maxAttempts)
}
