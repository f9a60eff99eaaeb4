package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"cardcabinet/internal/core/domain"
	"cardcabinet/internal/core/ports"
	"cardcabinet/internal/dto"
)

// commandHandler runs one menu command. The returned bool is the continue
// flag: false stops the session loop. Errors are reserved for storage and
// other internal failures; user mistakes are rendered on the terminal and
// the loop continues.
type commandHandler func(ctx context.Context) (bool, error)

type menuItem struct {
	code  int
	label string
	run   commandHandler
}

// CabinetService orchestrates the session state machine and the user ledger
// in response to commands read from the terminal. It owns the current
// account selection.
type CabinetService struct {
	session  *domain.Session
	ledger   *LedgerService
	issuer   *CardIssuer
	term     ports.Terminal
	validate *validator.Validate
	logger   *slog.Logger

	// loginID tags log entries for the lifetime of one login.
	loginID string
}

// NewCabinetService wires a cabinet around a ledger, a card issuer and a
// terminal. The session starts logged out.
func NewCabinetService(ledger *LedgerService, issuer *CardIssuer, term ports.Terminal, logger *slog.Logger) *CabinetService {
	return &CabinetService{
		session:  domain.NewSession(),
		ledger:   ledger,
		issuer:   issuer,
		term:     term,
		validate: validator.New(),
		logger:   logger,
	}
}

// Session exposes the session for inspection; the cabinet remains the only
// writer.
func (s *CabinetService) Session() *domain.Session {
	return s.session
}

// menu returns the command table for the current session state.
func (s *CabinetService) menu() []menuItem {
	if s.session.LoggedIn() {
		return []menuItem{
			{1, "Balance", s.viewBalance},
			{2, "Add income", s.addIncome},
			{3, "Do transfer", s.doTransfer},
			{4, "Close account", s.closeAccount},
			{5, "Log out", s.logout},
			{0, "Exit", s.exitSilently},
		}
	}
	return []menuItem{
		{1, "Create an account", s.createAccount},
		{2, "Log into account", s.login},
		{0, "Exit", s.exitWithFarewell},
	}
}

// Run drives the read-eval loop: render the menu for the current state, read
// one selection, dispatch, repeat until a handler clears the continue flag.
// Internal failures are logged and the loop keeps going; only terminal
// exhaustion ends it with an error.
func (s *CabinetService) Run(ctx context.Context) error {
	for {
		items := s.menu()
		item, err := s.readSelection(items)
		if err != nil {
			return err
		}

		cont, err := item.run(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			s.logger.Error("command failed",
				slog.String("command", item.label),
				slog.String("state", s.session.State.String()),
				slog.String("error", err.Error()),
			)
			s.term.Println("Something went wrong. Please try again!")
			continue
		}
		if !cont {
			return nil
		}
	}
}

// readSelection prints the numbered menu and reads selections until one
// matches a valid command code. Invalid input is re-prompted, not rejected.
func (s *CabinetService) readSelection(items []menuItem) (menuItem, error) {
	for _, item := range items {
		s.term.Printf("%d. %s\n", item.code, item.label)
	}
	for {
		line, err := s.term.ReadLine("> ")
		if err != nil {
			return menuItem{}, err
		}
		code, convErr := strconv.Atoi(line)
		if convErr != nil {
			continue
		}
		for _, item := range items {
			if item.code == code {
				return item, nil
			}
		}
	}
}

func (s *CabinetService) createAccount(ctx context.Context) (bool, error) {
	existing, err := s.ledger.CardNumbers(ctx)
	if err != nil {
		return true, err
	}

	account := &domain.Account{
		CardNumber: s.issuer.NewCardNumber(existing),
		PIN:        s.issuer.NewPIN(),
	}
	if err := s.ledger.AddAccount(ctx, account); err != nil {
		return true, err
	}

	s.term.Println(
		"Your card has been created",
		"Your card number:",
		account.CardNumber,
		"Your card PIN:",
		account.PIN,
	)
	return true, nil
}

func (s *CabinetService) login(ctx context.Context) (bool, error) {
	s.term.Println("Enter your card number:")
	number, err := s.term.ReadLine(">")
	if err != nil {
		return false, err
	}

	known, err := s.ledger.CardNumbers(ctx)
	if err != nil {
		return true, err
	}

	account, cached := s.ledger.Account(number)
	if _, ok := known[number]; ok && cached {
		s.term.Println("Enter your PIN:")
		pin, err := s.term.ReadLine(">")
		if err != nil {
			return false, err
		}
		if pin == account.PIN {
			s.term.Println("You have successfully logged in!")
			s.session.LogIn(account)
			s.loginID = uuid.NewString()
			s.logger.Info("login succeeded",
				slog.String("login_id", s.loginID),
				slog.String("card_number", account.CardNumber),
			)
			return true, nil
		}
	}

	// Unknown number and wrong PIN are reported identically.
	s.term.Println("Wrong card number or PIN!")
	return true, nil
}

func (s *CabinetService) viewBalance(context.Context) (bool, error) {
	if s.session.LoggedIn() {
		s.term.Printf("Balance: %d\n", s.session.Current.Balance)
	}
	return true, nil
}

func (s *CabinetService) addIncome(ctx context.Context) (bool, error) {
	s.term.Println("Enter income:")
	line, err := s.term.ReadLine(">")
	if err != nil {
		return false, err
	}
	amount, convErr := strconv.ParseInt(line, 10, 64)
	if convErr != nil {
		s.term.Println("Please enter a valid amount!")
		return true, nil
	}
	if err := s.validate.Struct(dto.IncomeRequest{Amount: amount}); err != nil {
		s.term.Println("Income must be a positive number!")
		return true, nil
	}

	if err := s.ledger.Fund(ctx, s.session.Current, amount); err != nil {
		return true, err
	}
	return true, nil
}

func (s *CabinetService) doTransfer(ctx context.Context) (bool, error) {
	s.term.Println("Transfer", "Enter card number:")
	destination, err := s.term.ReadLine(">")
	if err != nil {
		return false, err
	}
	if !IsValidCardNumber(destination) {
		s.term.Println("Probably you made a mistake in the card number. Please try again!")
		return true, nil
	}
	if destination == s.session.Current.CardNumber {
		s.term.Println("You can't transfer money to the same account!")
		return true, nil
	}
	known, err := s.ledger.CardNumbers(ctx)
	if err != nil {
		return true, err
	}
	if _, ok := known[destination]; !ok {
		s.term.Println("Such a card does not exist.")
		return true, nil
	}

	s.term.Println("Enter how much money you want to transfer:")
	line, err := s.term.ReadLine(">")
	if err != nil {
		return false, err
	}
	amount, convErr := strconv.ParseInt(line, 10, 64)
	if convErr != nil {
		s.term.Println("Please enter a valid amount!")
		return true, nil
	}
	if err := s.validate.Struct(dto.TransferRequest{Destination: destination, Amount: amount}); err != nil {
		s.term.Println("Please enter a valid amount!")
		return true, nil
	}
	if s.session.Current.Balance < amount {
		s.term.Println("Not enough money!")
		return true, nil
	}

	if err := s.ledger.Transfer(ctx, s.session.Current, destination, amount); err != nil {
		return true, err
	}
	s.term.Println("Success!")
	return true, nil
}

func (s *CabinetService) closeAccount(ctx context.Context) (bool, error) {
	if err := s.ledger.DeleteAccount(ctx, s.session.Current); err != nil {
		return true, err
	}
	s.term.Println("The account has been closed!")
	s.endLogin("account closed")
	return true, nil
}

func (s *CabinetService) logout(context.Context) (bool, error) {
	s.endLogin("logged out")
	return true, nil
}

// endLogin forces the logout transition, clearing the current account.
func (s *CabinetService) endLogin(reason string) {
	s.logger.Info(reason, slog.String("login_id", s.loginID))
	s.session.LogOut()
	s.loginID = ""
}

// exitWithFarewell is the logged-out exit path.
func (s *CabinetService) exitWithFarewell(context.Context) (bool, error) {
	s.term.Println("Bye!")
	return false, nil
}

// exitSilently is the logged-in exit path; unlike the logged-out one it
// prints no farewell.
func (s *CabinetService) exitSilently(context.Context) (bool, error) {
	return false, nil
}
