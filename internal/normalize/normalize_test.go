package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixaescolar/caixa/internal/model"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *time.Time
	}{
		{
			name:  "brazilian format",
			input: "10/01/2024",
			want:  datePtr(2024, time.January, 10),
		},
		{
			name:  "iso fallback",
			input: "2024-01-10",
			want:  datePtr(2024, time.January, 10),
		},
		{
			name:  "garbage",
			input: "amanhã",
			want:  nil,
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "out of range day",
			input: "32/01/2024",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "brazilian thousands", input: "R$ 1.234,56", want: 1234.56},
		{name: "plain comma decimal", input: "300,00", want: 300},
		{name: "negative", input: "-R$ 150,25", want: -150.25},
		{name: "integer", input: "500", want: 500},
		{name: "garbage", input: "a combinar", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "lone minus", input: "-", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseMoney(tt.input), 0.001)
		})
	}
}

func TestCleanCategory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "rec prefix", input: "REC - Mensalidade", want: "Mensalidade"},
		{name: "dsp prefix", input: "DSP - Salários", want: "Salarios"},
		{name: "diacritics stripped", input: "Matrícula", want: "Matricula"},
		{name: "title cased", input: "despesas com pessoal", want: "Despesas Com Pessoal"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCategory(tt.input))
		})
	}
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Ana Silva", want: "ana silva"},
		{name: "fraction tag", input: "Ana Silva 1/6", want: "ana silva"},
		{name: "indexed fraction tag", input: "Ana Silva 1/6[1]", want: "ana silva"},
		{name: "tag in the middle", input: "Ana 2/12 Silva", want: "ana silva"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchName(tt.input))
		})
	}
}

func TestRow_CostClassificationPrecedence(t *testing.T) {
	tests := []struct {
		name string
		row  model.RawRow
		want model.CostKind
	}{
		{
			name: "explicit boolean true wins over text",
			row:  model.RawRow{"Custo_Variavel": "TRUE", "Classificacao_Custo": "Fixa"},
			want: model.CostVariavel,
		},
		{
			name: "explicit boolean false wins over text",
			row:  model.RawRow{"Custo_Variavel": "0", "Classificacao_Custo": "Variável"},
			want: model.CostFixa,
		},
		{
			name: "free text when no boolean",
			row:  model.RawRow{"Classificacao_Custo": "Fixa"},
			want: model.CostFixa,
		},
		{
			name: "default is variable",
			row:  model.RawRow{},
			want: model.CostVariavel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.row["Descrição"] = "Aluguel"
			tt.row["Data_Vencimento"] = "10/01/2024"
			tx, ok := Row(tt.row, model.SourceTransactions, 0)
			require.True(t, ok)
			assert.Equal(t, tt.want, tx.CostKind)
		})
	}
}

func TestRow_InclusionPredicate(t *testing.T) {
	tests := []struct {
		name   string
		row    model.RawRow
		source model.Source
		want   bool
	}{
		{
			name:   "description and due date",
			row:    model.RawRow{"Descrição": "Mensalidade Ana", "Data_Vencimento": "10/01/2024"},
			source: model.SourceTransactions,
			want:   true,
		},
		{
			name:   "missing due date",
			row:    model.RawRow{"Descrição": "Mensalidade Ana"},
			source: model.SourceTransactions,
			want:   false,
		},
		{
			name:   "missing description",
			row:    model.RawRow{"Data_Vencimento": "10/01/2024"},
			source: model.SourceTransactions,
			want:   false,
		},
		{
			name:   "registry rows kept unconditionally",
			row:    model.RawRow{"nome_completo_aluno": "Ana Silva"},
			source: model.SourceRegistry,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Row(tt.row, tt.source, 0)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestRow_TypeDefaults(t *testing.T) {
	base := model.RawRow{"Descrição": "x", "Data_Vencimento": "10/01/2024"}

	tx, ok := Row(base, model.SourceTransactions, 0)
	require.True(t, ok)
	assert.Equal(t, model.TypeSaida, tx.Type, "transaction rows default to Saída")

	tx, ok = Row(model.RawRow{"nome_completo_aluno": "Ana"}, model.SourceRegistry, 0)
	require.True(t, ok)
	assert.Equal(t, model.TypeInfo, tx.Type, "registry rows default to Info")

	withType := model.RawRow{"Descrição": "x", "Data_Vencimento": "10/01/2024", "Tipo": "Entrada"}
	tx, ok = Row(withType, model.SourceTransactions, 0)
	require.True(t, ok)
	assert.Equal(t, model.TypeEntrada, tx.Type)
}

func TestRow_Amounts(t *testing.T) {
	row := model.RawRow{
		"Descrição":       "Estorno",
		"Data_Vencimento": "10/01/2024",
		"Valor_Liq":       "-R$ 100,00",
		"Valor_Bruto":     "R$ 110,00",
	}
	tx, ok := Row(row, model.SourceTransactions, 3)
	require.True(t, ok)
	assert.InDelta(t, -100, tx.NetAmount, 0.001)
	assert.InDelta(t, 100, tx.AbsAmount, 0.001)
	assert.InDelta(t, 110, tx.GrossAmount, 0.001)
	assert.Equal(t, "transactions-3", tx.ID)
}

func TestRow_GrossDefaultsToAbs(t *testing.T) {
	row := model.RawRow{
		"Descrição":       "Mensalidade",
		"Data_Vencimento": "10/01/2024",
		"Valor_Liq":       "300,00",
	}
	tx, ok := Row(row, model.SourceTransactions, 0)
	require.True(t, ok)
	assert.InDelta(t, 300, tx.GrossAmount, 0.001)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, model.StatusPago, ParseStatus("Pago"))
	assert.Equal(t, model.StatusPago, ParseStatus("PAGO"))
	assert.Equal(t, model.StatusAtrasado, ParseStatus("atrasado"))
	assert.Equal(t, model.StatusUnknown, ParseStatus("talvez"))
	assert.Equal(t, model.StatusUnknown, ParseStatus(""))
}

func TestRow_SynonymKeys(t *testing.T) {
	row := model.RawRow{
		"descricao":       "Mensalidade Ana",
		"data_vencimento": "10/01/2024",
		"valor_liq":       "300,00",
		"tipo":            "entrada",
	}
	tx, ok := Row(row, model.SourceTransactions, 0)
	require.True(t, ok)
	assert.Equal(t, "Mensalidade Ana", tx.Description)
	assert.Equal(t, model.TypeEntrada, tx.Type)
	assert.InDelta(t, 300, tx.AbsAmount, 0.001)
}

func TestStartOfDay(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	local := time.Date(2024, time.June, 1, 23, 30, 0, 0, brt)

	got := StartOfDay(local)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location(), "day keys must be zone-free")

	// Parsed dates are already UTC midnights and must pass through.
	parsed := ParseDate("01/06/2024")
	require.NotNil(t, parsed)
	assert.True(t, StartOfDay(*parsed).Equal(*parsed))
}

func TestRows_DropsExcludedRows(t *testing.T) {
	raws := []model.RawRow{
		{"Descrição": "Mensalidade Ana", "Data_Vencimento": "10/01/2024", "Valor_Liq": "300,00", "Tipo": "Entrada"},
		{"Descrição": "", "Data_Vencimento": "10/01/2024"},
		{"Descrição": "Sem vencimento", "Data_Vencimento": "amanhã"},
	}

	txs := Rows(raws, model.SourceTransactions)
	require.Len(t, txs, 1)
	assert.Equal(t, "transactions-0", txs[0].ID, "ids keep the raw row index, not the kept index")

	// Registry rows survive the predicate unconditionally.
	assert.Len(t, Rows(raws, model.SourceRegistry), 3)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
