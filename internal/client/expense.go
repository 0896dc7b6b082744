// Package client is the consumer side of the expense API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chucky-1/expenses/internal/model"
)

var NotFoundErr = errors.New("expense not found")

type Expense struct {
	baseURL string
	client  *http.Client
}

func NewExpense(baseURL string, timeout time.Duration) *Expense {
	return &Expense{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (e *Expense) Create(ctx context.Context, name string, amount float64, date time.Time) error {
	body, err := json.Marshal(model.CreateExpenseRequest{
		Name:   name,
		Amount: amount,
		Date:   date.Format(model.DateLayout),
	})
	if err != nil {
		return fmt.Errorf("expense client couldn't marshal create request: %v", err)
	}

	resp, err := e.do(ctx, http.MethodPost, "/", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("expense client: create answered %s", resp.Status)
	}
	return nil
}

func (e *Expense) GetByRange(ctx context.Context, start, end time.Time) ([]model.Expense, error) {
	path := fmt.Sprintf("/%s/%s/", start.Format(model.DateLayout), end.Format(model.DateLayout))
	return e.getList(ctx, path)
}

func (e *Expense) GetAll(ctx context.Context) ([]model.Expense, error) {
	return e.getList(ctx, "/all/")
}

func (e *Expense) GetByID(ctx context.Context, id int64) (*model.Expense, error) {
	resp, err := e.do(ctx, http.MethodGet, fmt.Sprintf("/%d/", id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NotFoundErr
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("expense client: get by id answered %s", resp.Status)
	}

	var expense model.Expense
	if err = json.NewDecoder(resp.Body).Decode(&expense); err != nil {
		return nil, fmt.Errorf("expense client couldn't decode expense: %v", err)
	}
	return &expense, nil
}

func (e *Expense) Update(ctx context.Context, id int64, name string, amount float64) error {
	body, err := json.Marshal(model.UpdateExpenseRequest{
		Name:   name,
		Amount: amount,
	})
	if err != nil {
		return fmt.Errorf("expense client couldn't marshal update request: %v", err)
	}

	resp, err := e.do(ctx, http.MethodPut, fmt.Sprintf("/update/%d/", id), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return NotFoundErr
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expense client: update answered %s", resp.Status)
	}
	return nil
}

func (e *Expense) Delete(ctx context.Context, id int64) error {
	resp, err := e.do(ctx, http.MethodDelete, fmt.Sprintf("/delete/%d/", id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return NotFoundErr
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expense client: delete answered %s", resp.Status)
	}
	return nil
}

func (e *Expense) getList(ctx context.Context, path string) ([]model.Expense, error) {
	resp, err := e.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NotFoundErr
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("expense client: list answered %s", resp.Status)
	}

	var expenses []model.Expense
	if err = json.NewDecoder(resp.Body).Decode(&expenses); err != nil {
		return nil, fmt.Errorf("expense client couldn't decode expenses: %v", err)
	}
	return expenses, nil
}

func (e *Expense) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("expense client couldn't build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("expense client couldn't reach api: %v", err)
	}
	return resp, nil
}
