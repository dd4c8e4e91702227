// Package normalize converts raw heterogeneous spreadsheet rows into
// canonical transactions. Every function here is pure and total: dirty
// cells degrade to safe defaults (nil dates, zero amounts, empty
// vocabulary values) instead of surfacing errors, because the source
// spreadsheets are assumed dirty by default.
package normalize

import (
	"fmt"
	"math"

	"github.com/caixaescolar/caixa/internal/model"
)

// Column synonym lists, probed in order. Tenants disagree on header
// spelling and casing, so each logical field carries every variant seen
// in the wild.
var (
	keysDueDate     = []string{"Data_Vencimento", "Data Vencimento", "data_vencimento", "Vencimento"}
	keysPaymentDate = []string{"Data_Pagamento", "Data Pagamento", "data_pagamento", "Pagamento"}
	keysDescription = []string{"Descrição", "Descricao", "descrição", "descricao", "Histórico", "Historico"}
	keysResponsible = []string{"Responsável", "Responsavel", "responsavel", "Nome_Responsavel", "nome_responsavel"}
	keysStudentID   = []string{"ID_Aluno", "id_aluno", "Aluno_ID", "Matrícula", "Matricula", "matricula"}
	keysCategory    = []string{"Categoria", "categoria"}
	keysStatus      = []string{"Status", "status", "Situação", "Situacao"}
	keysType        = []string{"Tipo", "tipo", "Tipo_Transacao", "tipo_transacao"}
	keysMethod      = []string{"Forma_Pagamento", "Forma de Pagamento", "forma_pagamento", "Método", "Metodo"}
	keysAccount     = []string{"Conta", "conta", "Conta_Bancária", "Conta_Bancaria"}
	keysNetValue    = []string{"Valor_Liq", "Valor_Líquido", "Valor_Liquido", "valor_liq", "Valor"}
	keysGrossValue  = []string{"Valor_Bruto", "Valor Bruto", "valor_bruto"}
	keysCostFlag    = []string{"Custo_Variavel", "Custo_Variável", "custo_variavel"}
	keysCostText    = []string{"Classificação", "Classificacao", "Classificacao_Custo", "classificacao_custo", "Tipo_Custo"}
)

// Row converts one raw spreadsheet row into a canonical transaction.
// The boolean reports whether the row belongs in the working set: it
// needs both a description and a parseable due date, except registry
// rows, which are kept unconditionally so they can seed students even
// without any attached transaction.
func Row(raw model.RawRow, source model.Source, index int) (model.Transaction, bool) {
	tx := model.Transaction{
		ID:              fmt.Sprintf("%s-%d", source, index),
		DueDate:         ParseDate(raw.First(keysDueDate...)),
		PaymentDate:     ParseDate(raw.First(keysPaymentDate...)),
		StudentID:       raw.First(keysStudentID...),
		Description:     raw.First(keysDescription...),
		ResponsibleName: raw.First(keysResponsible...),
		Category:        CleanCategory(raw.First(keysCategory...)),
		PaymentMethod:   raw.First(keysMethod...),
		Account:         raw.First(keysAccount...),
		Status:          ParseStatus(raw.First(keysStatus...)),
		Type:            parseType(raw.First(keysType...), source),
		CostKind:        parseCostKind(raw),
		Source:          source,
	}

	tx.NetAmount = ParseMoney(raw.First(keysNetValue...))
	tx.AbsAmount = math.Abs(tx.NetAmount)
	tx.GrossAmount = math.Abs(ParseMoney(raw.First(keysGrossValue...)))
	if tx.GrossAmount == 0 {
		tx.GrossAmount = tx.AbsAmount
	}

	included := (tx.Description != "" && tx.DueDate != nil) || source == model.SourceRegistry
	return tx, included
}

// ParseStatus maps a status cell onto the closed payment vocabulary.
// Anything outside it is unknown, never an error.
func ParseStatus(s string) model.PaymentStatus {
	switch Fold(s) {
	case "pago":
		return model.StatusPago
	case "pendente":
		return model.StatusPendente
	case "atrasado":
		return model.StatusAtrasado
	case "cancelado":
		return model.StatusCancelado
	default:
		return model.StatusUnknown
	}
}

func parseType(s string, source model.Source) model.TransactionType {
	switch Fold(s) {
	case "entrada":
		return model.TypeEntrada
	case "saida":
		return model.TypeSaida
	case "info":
		return model.TypeInfo
	}
	if source == model.SourceRegistry {
		return model.TypeInfo
	}
	return model.TypeSaida
}

// parseCostKind resolves the fixed/variable cost classification. An
// explicit boolean cell wins over free text, which wins over the
// Variável default.
func parseCostKind(raw model.RawRow) model.CostKind {
	if v, ok := ParseFlag(raw.First(keysCostFlag...)); ok {
		if v {
			return model.CostVariavel
		}
		return model.CostFixa
	}
	switch Fold(raw.First(keysCostText...)) {
	case "fixa", "fixo":
		return model.CostFixa
	case "variavel":
		return model.CostVariavel
	}
	return model.CostVariavel
}

// Rows normalizes a whole table, keeping only rows that satisfy the
// inclusion predicate.
func Rows(raws []model.RawRow, source model.Source) []model.Transaction {
	txs := make([]model.Transaction, 0, len(raws))
	for i, raw := range raws {
		if tx, ok := Row(raw, source, i); ok {
			txs = append(txs, tx)
		}
	}
	return txs
}
