package content

import (
	"context"
	"slices"
	"time"

	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/profile"
)

var artThemes = []ArtTheme{
	{Title: "A Arca de Noé", Instruction: "Desenhe um grande barco com muitos animais e um arco-íris!", Icon: "🚢"},
	{Title: "Davi e Golias", Instruction: "Desenhe o pequeno Davi com sua funda diante do gigante.", Icon: "🪨"},
	{Title: "A Criação", Instruction: "Desenhe o sol, a lua, as estrelas e os animais que Deus criou.", Icon: "🌍"},
	{Title: "Jonas e o Grande Peixe", Instruction: "Desenhe Jonas dentro de um peixe enorme no fundo do mar.", Icon: "🐋"},
	{Title: "O Bom Pastor", Instruction: "Desenhe Jesus cuidando de suas ovelhas em um campo verde.", Icon: "🐑"},
	{Title: "Daniel na Cova dos Leões", Instruction: "Desenhe Daniel tranquilo ao lado de leões mansos.", Icon: "🦁"},
	{Title: "A Multiplicação dos Pães", Instruction: "Desenhe os cinco pães e os dois peixes alimentando a multidão.", Icon: "🐟"},
}

var verseChallenges = []VerseChallenge{
	{
		Ref:          "Salmos 23:1",
		Text:         "O Senhor é o meu pastor; nada me faltará.",
		Hint:         "Este versículo fala sobre o nosso Pastor cuidadoso.",
		Question:     "O que não faltará para quem tem o Senhor como pastor?",
		Options:      []string{"Nada", "Dinheiro", "Comida"},
		CorrectIndex: 0,
	},
	{
		Ref:          "João 3:16",
		Text:         "Porque Deus amou o mundo de tal maneira que deu o seu Filho unigênito.",
		Hint:         "Fala do tamanho do amor de Deus.",
		Question:     "Quem Deus amou de tal maneira?",
		Options:      []string{"Os anjos", "O mundo", "Os reis"},
		CorrectIndex: 1,
	},
	{
		Ref:          "Filipenses 4:13",
		Text:         "Tudo posso naquele que me fortalece.",
		Hint:         "Fala de onde vem a nossa força.",
		Question:     "Naquele que me fortalece, o que eu posso?",
		Options:      []string{"Pouca coisa", "Nada", "Tudo"},
		CorrectIndex: 2,
	},
	{
		Ref:          "Gênesis 1:1",
		Text:         "No princípio, criou Deus os céus e a terra.",
		Hint:         "É o primeiro versículo da Bíblia.",
		Question:     "O que Deus criou no princípio?",
		Options:      []string{"Os céus e a terra", "Só o mar", "As cidades"},
		CorrectIndex: 0,
	},
	{
		Ref:          "Provérbios 17:17",
		Text:         "Em todo o tempo ama o amigo.",
		Hint:         "Fala sobre amizade verdadeira.",
		Question:     "Quando o amigo ama?",
		Options:      []string{"Só nas festas", "Em todo o tempo", "Quando ganha presente"},
		CorrectIndex: 1,
	},
}

var kidsDevotionals = []Devotional{
	{
		VerseRef:   "Salmos 23:1",
		VerseText:  "O Senhor é o meu pastor; nada me faltará.",
		Reflection: "Assim como o pastor cuida das ovelhas, Deus cuida de você todos os dias.",
		Challenge:  "Desenhe uma ovelhinha e faça uma oração agradecendo pelo cuidado de Deus.",
	},
	{
		VerseRef:   "Efésios 4:32",
		VerseText:  "Sede uns para com os outros benignos, misericordiosos.",
		Reflection: "Ser gentil é uma forma de mostrar o amor de Jesus para as pessoas.",
		Challenge:  "Faça uma oração simples por um amigo e diga algo gentil para ele hoje.",
	},
}

var devotionals = []Devotional{
	{
		VerseRef:   "Lamentações 3:22-23",
		VerseText:  "As misericórdias do Senhor são a causa de não sermos consumidos; renovam-se cada manhã.",
		Reflection: "Cada dia é uma nova oportunidade de experimentar a fidelidade de Deus.",
		Challenge:  "Escreva três motivos de gratidão antes de dormir.",
	},
	{
		VerseRef:   "Mateus 5:16",
		VerseText:  "Assim resplandeça a vossa luz diante dos homens.",
		Reflection: "Nossas atitudes falam sobre quem seguimos mais do que nossas palavras.",
		Challenge:  "Pratique uma ação de bondade anônima hoje.",
	},
}

var quizzes = []QuizQuestion{
	{Question: "Quem construiu a arca?", Options: []string{"Moisés", "Noé", "Abraão"}, CorrectIndex: 1},
	{Question: "Quantos discípulos Jesus escolheu?", Options: []string{"7", "10", "12"}, CorrectIndex: 2},
	{Question: "Onde Jesus nasceu?", Options: []string{"Belém", "Nazaré", "Jerusalém"}, CorrectIndex: 0},
	{Question: "Quem venceu o gigante Golias?", Options: []string{"Saul", "Davi", "Sansão"}, CorrectIndex: 1},
	{Question: "Qual o primeiro livro da Bíblia?", Options: []string{"Gênesis", "Êxodo", "Salmos"}, CorrectIndex: 0},
}

// StaticGenerator serves built-in content. The same day always yields the same item,
// so it is used both as the offline provider and as the fallback for a remote model.
type StaticGenerator struct {
	clock timeutil.Clock
}

// NewStaticGenerator creates a generator that rotates content by calendar day.
// A nil clock reads the system clock.
func NewStaticGenerator(clock timeutil.Clock) *StaticGenerator {
	if clock == nil {
		clock = timeutil.UTCClock{}
	}
	return &StaticGenerator{clock: clock}
}

var _ Generator = (*StaticGenerator)(nil)

func (g *StaticGenerator) Devotional(_ context.Context, t profile.Type) (*Devotional, error) {
	list := devotionals
	if t == profile.TypeKids {
		list = kidsDevotionals
	}
	d := pick(list, timeutil.Today(g.clock))
	return &d, nil
}

func (g *StaticGenerator) ArtTheme(_ context.Context, _ profile.Type, day timeutil.Date) (*ArtTheme, error) {
	a := pick(artThemes, day)
	return &a, nil
}

func (g *StaticGenerator) VerseChallenge(_ context.Context, _ profile.Type, day timeutil.Date) (*VerseChallenge, error) {
	v := pick(verseChallenges, day)
	v.Options = slices.Clone(v.Options)
	return &v, nil
}

func (g *StaticGenerator) Quiz(_ context.Context, _ profile.Type) ([]QuizQuestion, error) {
	start := dayNumber(timeutil.Today(g.clock))
	out := make([]QuizQuestion, 0, 3)
	for i := range 3 {
		q := quizzes[(start+i)%len(quizzes)]
		q.Options = slices.Clone(q.Options)
		out = append(out, q)
	}
	return out, nil
}

func pick[T any](list []T, day timeutil.Date) T {
	return list[dayNumber(day)%len(list)]
}

// dayNumber counts days since the Unix epoch. Unset or malformed dates count as day 0.
func dayNumber(day timeutil.Date) int {
	t, err := time.Parse(timeutil.DateLayout, day.String())
	if err != nil {
		return 0
	}
	return max(int(t.Unix()/86400), 0)
}
