package services_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"cardcabinet/internal/adapters/database/inmem"
	"cardcabinet/internal/core/domain"
	"cardcabinet/internal/core/ports"
	"cardcabinet/internal/core/services"
	"cardcabinet/internal/models"
)

// scriptTerminal feeds a fixed sequence of input lines and records every
// line written to it. Reading past the script returns io.EOF, which ends
// the session loop the same way a closed stdin would.
type scriptTerminal struct {
	inputs []string
	output []string
}

func (t *scriptTerminal) Println(lines ...string) {
	t.output = append(t.output, lines...)
}

func (t *scriptTerminal) Printf(format string, args ...any) {
	t.output = append(t.output, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

func (t *scriptTerminal) ReadLine(string) (string, error) {
	if len(t.inputs) == 0 {
		return "", io.EOF
	}
	line := t.inputs[0]
	t.inputs = t.inputs[1:]
	return line, nil
}

func (t *scriptTerminal) saw(line string) bool {
	for _, out := range t.output {
		if out == line {
			return true
		}
	}
	return false
}

func (t *scriptTerminal) count(line string) int {
	n := 0
	for _, out := range t.output {
		if out == line {
			n++
		}
	}
	return n
}

// --- Test Suite Setup ---

type CabinetServiceTestSuite struct {
	suite.Suite
	repo ports.CardRepository
}

func (suite *CabinetServiceTestSuite) SetupTest() {
	suite.repo = inmem.NewCardRepository()
}

// seedAccount persists a card so the cabinet under test starts with it.
func (suite *CabinetServiceTestSuite) seedAccount(id int64, number, pin string, balance int64) {
	err := suite.repo.SaveCard(context.Background(), models.CardRecord{
		ID: id, Number: number, PIN: pin, Balance: balance,
	})
	suite.Require().NoError(err)
}

// runCabinet executes a full session over the scripted inputs and returns
// the terminal transcript and the cabinet for state assertions.
func (suite *CabinetServiceTestSuite) runCabinet(inputs ...string) (*scriptTerminal, *services.CabinetService) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ledger, err := services.NewLedgerService(ctx, suite.repo, logger)
	suite.Require().NoError(err)

	term := &scriptTerminal{inputs: inputs}
	issuer := services.NewCardIssuer("400000", rand.New(rand.NewSource(7)))
	cabinet := services.NewCabinetService(ledger, issuer, term, logger)

	runErr := cabinet.Run(ctx)
	if runErr != nil {
		suite.Require().ErrorIs(runErr, io.EOF)
	}
	return term, cabinet
}

// createdCardAndPIN extracts the card number and PIN printed by the
// create-account command.
func (suite *CabinetServiceTestSuite) createdCardAndPIN(term *scriptTerminal) (string, string) {
	var number, pin string
	for i, line := range term.output {
		switch line {
		case "Your card number:":
			number = term.output[i+1]
		case "Your card PIN:":
			pin = term.output[i+1]
		}
	}
	suite.Require().NotEmpty(number)
	suite.Require().NotEmpty(pin)
	return number, pin
}

const (
	cardA = "4000000000000010"
	cardB = "4000000000000028"
)

// --- Test Cases ---

func (suite *CabinetServiceTestSuite) TestCreateAccountPrintsValidCard() {
	term, _ := suite.runCabinet("1", "0")

	suite.True(term.saw("Your card has been created"))
	number, pin := suite.createdCardAndPIN(term)
	suite.True(services.IsValidCardNumber(number))
	suite.Len(number, 16)
	suite.Regexp(`^\d{4}$`, pin)

	// Round-trip: the store now lists the new number exactly once.
	numbers, err := suite.repo.ListCardNumbers(context.Background())
	suite.Require().NoError(err)
	suite.Equal([]string{number}, numbers)

	suite.True(term.saw("Bye!"))
}

func (suite *CabinetServiceTestSuite) TestExitLoggedOutPrintsFarewell() {
	term, _ := suite.runCabinet("0")
	suite.True(term.saw("Bye!"))
}

func (suite *CabinetServiceTestSuite) TestExitLoggedInIsSilent() {
	suite.seedAccount(1, cardA, "1234", 0)
	term, cabinet := suite.runCabinet("2", cardA, "1234", "0")

	suite.True(term.saw("You have successfully logged in!"))
	suite.False(term.saw("Bye!"))
	suite.True(cabinet.Session().LoggedIn())
}

func (suite *CabinetServiceTestSuite) TestInvalidMenuSelectionIsReprompted() {
	term, _ := suite.runCabinet("9", "x", "0")
	suite.True(term.saw("Bye!"))
}

func (suite *CabinetServiceTestSuite) TestLoginWrongPIN() {
	suite.seedAccount(1, cardA, "1234", 0)
	term, cabinet := suite.runCabinet("2", cardA, "0000", "0")

	suite.True(term.saw("Wrong card number or PIN!"))
	suite.False(term.saw("You have successfully logged in!"))
	suite.Equal(domain.StateLoggedOut, cabinet.Session().State)
	// The farewell confirms the loop stayed on the logged-out menu.
	suite.True(term.saw("Bye!"))
}

func (suite *CabinetServiceTestSuite) TestLoginUnknownCardSameMessage() {
	suite.seedAccount(1, cardA, "1234", 0)
	term, _ := suite.runCabinet("2", cardB, "0")

	suite.True(term.saw("Wrong card number or PIN!"))
}

func (suite *CabinetServiceTestSuite) TestBalanceIsIdempotent() {
	suite.seedAccount(1, cardA, "1234", 550)
	term, _ := suite.runCabinet("2", cardA, "1234", "1", "1", "0")

	suite.Equal(2, term.count("Balance: 550"))
}

func (suite *CabinetServiceTestSuite) TestAddIncomePersists() {
	suite.seedAccount(1, cardA, "1234", 0)
	term, _ := suite.runCabinet("2", cardA, "1234", "2", "100", "1", "0")

	suite.True(term.saw("Balance: 100"))
	rec, err := suite.repo.FindCardByNumber(context.Background(), cardA)
	suite.Require().NoError(err)
	suite.Equal(int64(100), rec.Balance)
}

func (suite *CabinetServiceTestSuite) TestAddIncomeRejectsMalformedAmount() {
	suite.seedAccount(1, cardA, "1234", 0)
	term, _ := suite.runCabinet("2", cardA, "1234", "2", "ten", "1", "0")

	suite.True(term.saw("Please enter a valid amount!"))
	suite.True(term.saw("Balance: 0"))
}

func (suite *CabinetServiceTestSuite) TestAddIncomeRejectsNegativeAmount() {
	suite.seedAccount(1, cardA, "1234", 0)
	term, _ := suite.runCabinet("2", cardA, "1234", "2", "-5", "1", "0")

	suite.True(term.saw("Income must be a positive number!"))
	suite.True(term.saw("Balance: 0"))
}

func (suite *CabinetServiceTestSuite) TestTransferMovesMoney() {
	suite.seedAccount(1, cardA, "1234", 100)
	suite.seedAccount(2, cardB, "5678", 0)
	term, _ := suite.runCabinet("2", cardA, "1234", "3", cardB, "30", "1", "0")

	suite.True(term.saw("Success!"))
	suite.True(term.saw("Balance: 70"))

	ctx := context.Background()
	recA, err := suite.repo.FindCardByNumber(ctx, cardA)
	suite.Require().NoError(err)
	suite.Equal(int64(70), recA.Balance)
	recB, err := suite.repo.FindCardByNumber(ctx, cardB)
	suite.Require().NoError(err)
	suite.Equal(int64(30), recB.Balance)
}

func (suite *CabinetServiceTestSuite) TestTransferToSelfRejected() {
	suite.seedAccount(1, cardA, "1234", 100)
	term, _ := suite.runCabinet("2", cardA, "1234", "3", cardA, "1", "0")

	suite.True(term.saw("You can't transfer money to the same account!"))
	suite.True(term.saw("Balance: 100"))
}

func (suite *CabinetServiceTestSuite) TestTransferToUnknownCardRejected() {
	suite.seedAccount(1, cardA, "1234", 100)
	term, _ := suite.runCabinet("2", cardA, "1234", "3", cardB, "1", "0")

	suite.True(term.saw("Such a card does not exist."))
	suite.True(term.saw("Balance: 100"))
}

func (suite *CabinetServiceTestSuite) TestTransferBadChecksumRejected() {
	suite.seedAccount(1, cardA, "1234", 100)
	term, _ := suite.runCabinet("2", cardA, "1234", "3", "4000000000000011", "1", "0")

	suite.True(term.saw("Probably you made a mistake in the card number. Please try again!"))
	suite.True(term.saw("Balance: 100"))
}

func (suite *CabinetServiceTestSuite) TestTransferInsufficientFunds() {
	suite.seedAccount(1, cardA, "1234", 10)
	suite.seedAccount(2, cardB, "5678", 0)
	term, _ := suite.runCabinet("2", cardA, "1234", "3", cardB, "30", "1", "0")

	suite.True(term.saw("Not enough money!"))
	suite.True(term.saw("Balance: 10"))

	recB, err := suite.repo.FindCardByNumber(context.Background(), cardB)
	suite.Require().NoError(err)
	suite.Equal(int64(0), recB.Balance)
}

func (suite *CabinetServiceTestSuite) TestLogoutReturnsToLoggedOutMenu() {
	suite.seedAccount(1, cardA, "1234", 0)
	term, cabinet := suite.runCabinet("2", cardA, "1234", "5", "0")

	suite.Equal(domain.StateLoggedOut, cabinet.Session().State)
	suite.Nil(cabinet.Session().Current)
	suite.True(term.saw("Bye!"))
}

func (suite *CabinetServiceTestSuite) TestCloseAccountDeletesAndLogsOut() {
	suite.seedAccount(1, cardA, "1234", 0)
	term, cabinet := suite.runCabinet("2", cardA, "1234", "4", "0")

	suite.True(term.saw("The account has been closed!"))
	suite.Equal(domain.StateLoggedOut, cabinet.Session().State)

	numbers, err := suite.repo.ListCardNumbers(context.Background())
	suite.Require().NoError(err)
	suite.NotContains(numbers, cardA)
	suite.True(term.saw("Bye!"))
}

func TestCabinetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CabinetServiceTestSuite))
}
