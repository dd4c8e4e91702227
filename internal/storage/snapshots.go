package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/caixaescolar/caixa/internal/model"
)

const dateLayout = time.RFC3339

func encodeDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func decodeDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// ReplaceTransactions swaps a tenant's transaction snapshot wholesale.
// Imports are full recomputes, so partial updates never happen.
func (s *SQLiteStorage) ReplaceTransactions(ctx context.Context, tenant string, txs []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTenant(tenant); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE tenant = ?`, tenant); err != nil {
		return fmt.Errorf("failed to clear transactions for %q: %w", tenant, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transactions (
		tenant, id, due_date, payment_date, student_id, description, responsible,
		category, payment_method, account, status, type, cost_kind, source,
		net_amount, abs_amount, gross_amount
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range txs {
		t := &txs[i]
		if _, err := stmt.ExecContext(ctx,
			tenant, t.ID, encodeDate(t.DueDate), encodeDate(t.PaymentDate),
			t.StudentID, t.Description, t.ResponsibleName, t.Category,
			t.PaymentMethod, t.Account, string(t.Status), string(t.Type),
			string(t.CostKind), string(t.Source),
			t.NetAmount, t.AbsAmount, t.GrossAmount,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %q: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction snapshot: %w", err)
	}
	return nil
}

// GetTransactions loads a tenant's transaction snapshot.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, tenant string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTenant(tenant); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, due_date, payment_date, student_id, description, responsible,
		category, payment_method, account, status, type, cost_kind, source,
		net_amount, abs_amount, gross_amount
	FROM transactions WHERE tenant = ? ORDER BY due_date, id`, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var due, paid sql.NullString
		var status, typ, costKind, source string
		if err := rows.Scan(
			&t.ID, &due, &paid, &t.StudentID, &t.Description, &t.ResponsibleName,
			&t.Category, &t.PaymentMethod, &t.Account, &status, &typ, &costKind, &source,
			&t.NetAmount, &t.AbsAmount, &t.GrossAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.DueDate = decodeDate(due)
		t.PaymentDate = decodeDate(paid)
		t.Status = model.PaymentStatus(status)
		t.Type = model.TransactionType(typ)
		t.CostKind = model.CostKind(costKind)
		t.Source = model.Source(source)
		out = append(out, t)
	}
	return out, rows.Err()
}

// ReplaceStudents swaps a tenant's student snapshot wholesale.
// Installment lists are not persisted; they are rebuilt by
// reconciliation from the transaction snapshot.
func (s *SQLiteStorage) ReplaceStudents(ctx context.Context, tenant string, students []model.Student) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTenant(tenant); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE tenant = ?`, tenant); err != nil {
		return fmt.Errorf("failed to clear students for %q: %w", tenant, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO students (
		tenant, id, name, match_name, responsible, phone, cpf, financial_cpf,
		scholarship, book, payment_day, contract_period,
		birth_date, enrollment_date, locked_date, dropped_date, evaded_date,
		completed_date, last_payment, next_due,
		contract_value, current_value, total_paid, total_pending, total_overdue,
		status, currently_enrolled, newly_enrolled, completed
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range students {
		st := &students[i]
		if _, err := stmt.ExecContext(ctx,
			tenant, st.ID, st.Name, st.MatchName, st.ResponsibleName, st.Phone,
			st.CPF, st.FinancialCPF, st.ScholarshipPercent, st.Book,
			st.PaymentDay, st.ContractPeriod,
			encodeDate(st.BirthDate), encodeDate(st.EnrollmentDate),
			encodeDate(st.LockedDate), encodeDate(st.DroppedDate),
			encodeDate(st.EvadedDate), encodeDate(st.CompletedDate),
			encodeDate(st.LastPayment), encodeDate(st.NextDue),
			st.ContractValue, st.CurrentValue, st.TotalPaid, st.TotalPending,
			st.TotalOverdue, string(st.Status),
			boolToInt(st.CurrentlyEnrolled), boolToInt(st.NewlyEnrolled), boolToInt(st.Completed),
		); err != nil {
			return fmt.Errorf("failed to insert student %q: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit student snapshot: %w", err)
	}
	return nil
}

// GetStudents loads a tenant's student snapshot.
func (s *SQLiteStorage) GetStudents(ctx context.Context, tenant string) ([]model.Student, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTenant(tenant); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, name, match_name, responsible, phone, cpf, financial_cpf,
		scholarship, book, payment_day, contract_period,
		birth_date, enrollment_date, locked_date, dropped_date, evaded_date,
		completed_date, last_payment, next_due,
		contract_value, current_value, total_paid, total_pending, total_overdue,
		status, currently_enrolled, newly_enrolled, completed
	FROM students WHERE tenant = ? ORDER BY name, id`, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Student
	for rows.Next() {
		var st model.Student
		var birth, enrolled, locked, dropped, evaded, completed, lastPay, nextDue sql.NullString
		var status string
		var curEnrolled, newEnrolled, done int
		if err := rows.Scan(
			&st.ID, &st.Name, &st.MatchName, &st.ResponsibleName, &st.Phone,
			&st.CPF, &st.FinancialCPF, &st.ScholarshipPercent, &st.Book,
			&st.PaymentDay, &st.ContractPeriod,
			&birth, &enrolled, &locked, &dropped, &evaded,
			&completed, &lastPay, &nextDue,
			&st.ContractValue, &st.CurrentValue, &st.TotalPaid, &st.TotalPending,
			&st.TotalOverdue, &status, &curEnrolled, &newEnrolled, &done,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		st.BirthDate = decodeDate(birth)
		st.EnrollmentDate = decodeDate(enrolled)
		st.LockedDate = decodeDate(locked)
		st.DroppedDate = decodeDate(dropped)
		st.EvadedDate = decodeDate(evaded)
		st.CompletedDate = decodeDate(completed)
		st.LastPayment = decodeDate(lastPay)
		st.NextDue = decodeDate(nextDue)
		st.Status = model.Status(status)
		st.CurrentlyEnrolled = curEnrolled != 0
		st.NewlyEnrolled = newEnrolled != 0
		st.Completed = done != 0
		out = append(out, st)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
