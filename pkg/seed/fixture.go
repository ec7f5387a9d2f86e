package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/getmockd/talentflow/internal/id"
)

// FixtureSource produces plausible values for seeded records.
type FixtureSource interface {
	JobTitle() string
	// Slug turns s into a lowercase, dash-separated ASCII identifier.
	Slug(s string) string
	FullName() string
	// Email returns an address derived from name.
	Email(name string) string
	// Words returns n space-separated filler words.
	Words(n int) string
	Sentence() string
	UUID() string
	// Intn returns a uniform int in [0, n).
	Intn(n int) int
}

var (
	titleLevels = []string{"Junior", "Senior", "Lead", "Principal", "Staff", "Chief", "Associate", "Head of"}
	titleAreas  = []string{"Frontend", "Backend", "Platform", "Data", "Product", "Security", "Mobile", "Infrastructure", "Growth", "Quality"}
	titleRoles  = []string{"Engineer", "Designer", "Developer", "Architect", "Analyst", "Manager", "Consultant", "Specialist", "Administrator"}

	firstNames = []string{
		"Ana", "Bruno", "Chloé", "Dmitri", "Emeka", "Fatima", "Grace", "Hiro", "Inés", "Jamal",
		"Kaito", "Lena", "Mateo", "Nadia", "Oskar", "Priya", "Quinn", "Rosa", "Sven", "Tariq",
		"Uma", "Víctor", "Wen", "Ximena", "Yusuf", "Zoë",
	}
	lastNames = []string{
		"Almeida", "Brown", "Castillo", "Dubois", "Eriksen", "Fischer", "García", "Haddad", "Ivanova", "Jensen",
		"Kowalski", "Lindqvist", "Moreau", "Nakamura", "Okafor", "Petrov", "Quintero", "Rossi", "Schmidt", "Tanaka",
		"Umarov", "Varga", "Williams", "Xu", "Yilmaz", "Zhang",
	}
	emailDomains = []string{"example.com", "example.org", "mail.test", "talent.test"}

	loremWords = []string{
		"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit", "sed", "do",
		"eiusmod", "tempor", "incididunt", "ut", "labore", "et", "dolore", "magna", "aliqua", "enim",
		"ad", "minim", "veniam", "quis", "nostrud", "exercitation", "ullamco", "laboris", "nisi", "aliquip",
	}
)

// RandomFixtures is the default FixtureSource. It is safe for concurrent use.
type RandomFixtures struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomFixtures returns a fixture source. A non-zero seed makes the
// output reproducible; zero seeds from the runtime's entropy.
func NewRandomFixtures(seed uint64) *RandomFixtures {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &RandomFixtures{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

// Intn returns a uniform int in [0, n).
func (f *RandomFixtures) Intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.IntN(n)
}

func (f *RandomFixtures) pick(items []string) string {
	return items[f.Intn(len(items))]
}

// JobTitle returns a title such as "Senior Platform Engineer".
func (f *RandomFixtures) JobTitle() string {
	return f.pick(titleLevels) + " " + f.pick(titleAreas) + " " + f.pick(titleRoles)
}

// FullName returns a first and last name.
func (f *RandomFixtures) FullName() string {
	return f.pick(firstNames) + " " + f.pick(lastNames)
}

// Email returns first.last<n>@domain for name.
func (f *RandomFixtures) Email(name string) string {
	local := strings.ReplaceAll(f.Slug(name), "-", ".")
	if local == "" {
		local = "candidate"
	}
	return fmt.Sprintf("%s%d@%s", local, f.Intn(1000), f.pick(emailDomains))
}

// Words returns n filler words.
func (f *RandomFixtures) Words(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = f.pick(loremWords)
	}
	return strings.Join(words, " ")
}

// Sentence returns a capitalized filler sentence ending in a period.
func (f *RandomFixtures) Sentence() string {
	s := f.Words(4 + f.Intn(6))
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// UUID returns a random UUID drawn from the fixture's generator.
func (f *RandomFixtures) UUID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, err := id.FromReader(rngReader{f.rng})
	if err != nil {
		// rngReader never fails.
		panic(err)
	}
	return v
}

// Slug folds accents, lowercases and joins alphanumeric runs with dashes.
func (f *RandomFixtures) Slug(s string) string {
	return Slugify(s)
}

// Slugify is the slug function used by RandomFixtures.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}

var _ FixtureSource = (*RandomFixtures)(nil)
