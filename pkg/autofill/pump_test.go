package autofill

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/pump-curve-sdk/pkg/config"
	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
	"github.com/ninja0404/pump-curve-sdk/pkg/jito"
	"github.com/ninja0404/pump-curve-sdk/pkg/pda"
	"github.com/ninja0404/pump-curve-sdk/pkg/program/pump"
	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

var (
	testMint    = solana.MustPublicKeyFromBase58("4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R")
	testUser    = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	testCreator = solana.MustPublicKeyFromBase58("7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU")
)

const boughtTokens = 34_281_150_129_546

func testGlobal() pump.GlobalConfig {
	return pump.GlobalConfig{
		Initialized:                 true,
		FeeRecipient:                constants.PumpFeeRecipient,
		InitialVirtualTokenReserves: 1_073_000_000_000_000,
		InitialVirtualSolReserves:   30_000_000_000,
		InitialRealTokenReserves:    793_100_000_000_000,
		TokenTotalSupply:            1_000_000_000_000_000,
		FeeBasisPoints:              95,
		CreatorFeeBasisPoints:       5,
	}
}

// curveAfterFirstBuy is the fresh curve after a 1 SOL buy.
func curveAfterFirstBuy() pump.BondingCurveState {
	s := testGlobal().NewCurve(testCreator)
	s.VirtualTokenReserves -= boughtTokens
	s.RealTokenReserves -= boughtTokens
	s.VirtualSolReserves += 990_099_010
	s.RealSolReserves = 990_099_010
	return s
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := New(config.DefaultBuilderConfig())
	require.NoError(t, err)
	return b
}

func decode(t *testing.T, ix types.BuiltInstruction) pump.DecodedInstruction {
	t.Helper()
	require.Equal(t, pump.ProgramKey, ix.ProgramID())
	d, err := pump.DecodeInstruction(ix.Payload())
	require.NoError(t, err)
	return d
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultBuilderConfig()
	cfg.DefaultSlippageBps = -1
	_, err := New(cfg)
	require.ErrorIs(t, err, types.ErrInvalidSlippage)
}

func TestBuyExactTokens(t *testing.T) {
	b := newTestBuilder(t)
	g := testGlobal()
	s := g.NewCurve(testCreator)

	ixs, err := b.Buy(BuyParams{
		Mint:        testMint,
		User:        testUser,
		Amount:      boughtTokens,
		SlippageBps: 100,
	}, &g, &s)
	require.NoError(t, err)
	require.Len(t, ixs, 2)

	// idempotent ATA creation first
	ata := ixs[0]
	require.Equal(t, constants.AssociatedTokenProgramID, ata.ProgramID())
	require.Equal(t, []byte{1}, ata.Payload())
	userATA, err := pda.AssociatedTokenAccount(testUser, testMint, constants.TokenProgramID)
	require.NoError(t, err)
	require.Equal(t, userATA.Address(), ata.AccountAt(1).PublicKey)

	d := decode(t, ixs[1])
	require.Equal(t, pump.VariantBuy, d.Variant)
	require.Equal(t, pump.BuyArgs{Amount: boughtTokens, MaxSolCost: 1_010_000_002}, *d.Buy)

	buy := ixs[1]
	require.Equal(t, 16, buy.NumAccounts())
	require.Equal(t, constants.PumpGlobal, buy.AccountAt(0).PublicKey)
	require.Equal(t, constants.PumpFeeRecipient, buy.AccountAt(1).PublicKey)
	require.Equal(t, testMint, buy.AccountAt(2).PublicKey)
	require.Equal(t, userATA.Address(), buy.AccountAt(5).PublicKey)
	require.Equal(t, testUser, buy.AccountAt(6).PublicKey)
	require.True(t, buy.AccountAt(6).IsSigner)

	vault, err := pda.Mainnet.CreatorVault(testCreator)
	require.NoError(t, err)
	require.Equal(t, vault.Address(), buy.AccountAt(9).PublicKey)
	require.Equal(t, constants.PumpEventAuthority, buy.AccountAt(10).PublicKey)
	require.Equal(t, constants.PumpProgramID, buy.AccountAt(11).PublicKey)

	gva, err := pda.Mainnet.GlobalVolumeAccumulator()
	require.NoError(t, err)
	uva, err := pda.Mainnet.UserVolumeAccumulator(testUser)
	require.NoError(t, err)
	feeConfig, err := pda.Mainnet.FeeConfig()
	require.NoError(t, err)
	require.Equal(t, gva.Address(), buy.AccountAt(12).PublicKey)
	require.Equal(t, uva.Address(), buy.AccountAt(13).PublicKey)
	require.True(t, buy.AccountAt(13).IsWritable)
	require.Equal(t, feeConfig.Address(), buy.AccountAt(14).PublicKey)
	require.Equal(t, constants.PumpFeeProgramID, buy.AccountAt(15).PublicKey)
}

func TestBuyExactSol(t *testing.T) {
	b := newTestBuilder(t)
	g := testGlobal()
	s := g.NewCurve(testCreator)

	ixs, err := b.Buy(BuyParams{
		Mint:        testMint,
		User:        testUser,
		Amount:      1_000_000_000,
		SlippageBps: 100,
		Mode:        BuyExactSol,
	}, &g, &s, WithSkipATA())
	require.NoError(t, err)
	require.Len(t, ixs, 1)
	d := decode(t, ixs[0])
	require.Equal(t, pump.BuyArgs{Amount: boughtTokens, MaxSolCost: 1_010_000_000}, *d.Buy)
}

func TestBuyExplicitLimit(t *testing.T) {
	b := newTestBuilder(t)
	g := testGlobal()
	s := g.NewCurve(testCreator)

	ixs, err := b.Buy(BuyParams{
		Mint:        testMint,
		User:        testUser,
		Amount:      boughtTokens,
		Limit:       2_000_000_000,
		SlippageBps: 0,
	}, &g, &s, WithSkipATA())
	require.NoError(t, err)
	require.EqualValues(t, 2_000_000_000, decode(t, ixs[0]).Buy.MaxSolCost)
}

func TestBuyErrors(t *testing.T) {
	b := newTestBuilder(t)
	g := testGlobal()
	s := g.NewCurve(testCreator)
	params := BuyParams{Mint: testMint, User: testUser, Amount: 1_000, SlippageBps: 100}

	_, err := b.Buy(params, nil, &s)
	require.ErrorIs(t, err, types.ErrGlobalNotFound)

	_, err = b.Buy(params, &g, nil)
	require.ErrorIs(t, err, types.ErrCurveNotFound)

	done := s
	done.Complete = true
	_, err = b.Buy(params, &g, &done)
	require.ErrorIs(t, err, types.ErrCurveCompleted)

	bad := params
	bad.SlippageBps = 10_001
	_, err = b.Buy(bad, &g, &s)
	require.ErrorIs(t, err, types.ErrInvalidSlippage)

	bad = params
	bad.Amount = 0
	_, err = b.Buy(bad, &g, &s)
	var valErr types.ValidationError
	require.True(t, errors.As(err, &valErr))
	require.Equal(t, "amount", valErr.Field)

	bad = params
	bad.Mode = BuyMode(7)
	_, err = b.Buy(bad, &g, &s)
	require.True(t, errors.As(err, &valErr))
	require.Equal(t, "mode", valErr.Field)

	noFee := g
	noFee.FeeRecipient = solana.PublicKey{}
	_, err = b.Buy(params, &noFee, &s)
	require.True(t, errors.As(err, &valErr))
	require.Equal(t, "feeRecipient", valErr.Field)
}

func TestSell(t *testing.T) {
	b := newTestBuilder(t)
	g := testGlobal()
	s := curveAfterFirstBuy()

	ixs, err := b.Sell(SellParams{
		Mint:        testMint,
		User:        testUser,
		Amount:      boughtTokens,
		SlippageBps: 100,
	}, &g, &s, WithCloseATA())
	require.NoError(t, err)
	require.Len(t, ixs, 2)

	d := decode(t, ixs[0])
	require.Equal(t, pump.VariantSell, d.Variant)
	require.Equal(t, pump.SellArgs{Amount: boughtTokens, MinSolOutput: 970_396_037}, *d.Sell)

	sell := ixs[0]
	vault, err := pda.Mainnet.CreatorVault(testCreator)
	require.NoError(t, err)
	// sell swaps creator_vault and token_program relative to buy
	require.Equal(t, vault.Address(), sell.AccountAt(8).PublicKey)
	require.Equal(t, constants.TokenProgramID, sell.AccountAt(9).PublicKey)

	feeConfig, err := pda.Mainnet.FeeConfig()
	require.NoError(t, err)
	require.Equal(t, 14, sell.NumAccounts())
	require.Equal(t, feeConfig.Address(), sell.AccountAt(12).PublicKey)
	require.Equal(t, constants.PumpFeeProgramID, sell.AccountAt(13).PublicKey)

	closeIx := ixs[1]
	require.Equal(t, constants.TokenProgramID, closeIx.ProgramID())
	require.Equal(t, []byte{9}, closeIx.Payload())
	require.Equal(t, sell.AccountAt(5).PublicKey, closeIx.AccountAt(0).PublicKey)
	require.Equal(t, testUser, closeIx.AccountAt(1).PublicKey)
	require.True(t, closeIx.AccountAt(2).IsSigner)
}

func TestSellLimitAndErrors(t *testing.T) {
	b := newTestBuilder(t)
	g := testGlobal()
	s := curveAfterFirstBuy()
	params := SellParams{Mint: testMint, User: testUser, Amount: boughtTokens, Limit: 1, SlippageBps: 100}

	ixs, err := b.Sell(params, &g, &s)
	require.NoError(t, err)
	require.Len(t, ixs, 1)
	require.EqualValues(t, 1, decode(t, ixs[0]).Sell.MinSolOutput)

	_, err = b.Sell(params, &g, nil)
	require.ErrorIs(t, err, types.ErrCurveNotFound)

	_, err = b.Sell(params, nil, &s)
	require.ErrorIs(t, err, types.ErrGlobalNotFound)

	// selling into an empty curve
	empty := g.NewCurve(testCreator)
	_, err = b.Sell(params, &g, &empty)
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)
}

func TestCreate(t *testing.T) {
	b := newTestBuilder(t)
	tip := jito.MainnetTipAccounts[0]

	ixs, err := b.Create(CreateParams{
		Mint:   testMint,
		User:   testUser,
		Name:   "Pump Test",
		Symbol: "PTST",
		URI:    "https://example.com/pt.json",
	},
		WithComputeUnitLimit(250_000),
		WithComputeUnitPrice(1_000),
		WithJitoTip(10_000),
		WithJitoTipAccount(tip),
	)
	require.NoError(t, err)
	require.Len(t, ixs, 4)

	require.Equal(t, computebudget.ProgramID, ixs[0].ProgramID())
	require.Equal(t, computebudget.ProgramID, ixs[1].ProgramID())
	require.Equal(t, solana.SystemProgramID, ixs[3].ProgramID())
	require.Equal(t, tip, ixs[3].AccountAt(1).PublicKey)

	create := ixs[2]
	d := decode(t, create)
	require.Equal(t, pump.VariantCreate, d.Variant)
	require.Equal(t, pump.CreateArgs{
		Name:    "Pump Test",
		Symbol:  "PTST",
		URI:     "https://example.com/pt.json",
		Creator: testUser,
	}, *d.Create)

	require.Equal(t, 14, create.NumAccounts())
	require.Equal(t, testMint, create.AccountAt(0).PublicKey)
	require.True(t, create.AccountAt(0).IsSigner)
	metadata, err := pda.Metadata(testMint)
	require.NoError(t, err)
	require.Equal(t, metadata.Address(), create.AccountAt(6).PublicKey)
	require.Equal(t, testUser, create.AccountAt(7).PublicKey)
}

func TestCreateValidation(t *testing.T) {
	b := newTestBuilder(t)
	var valErr types.ValidationError

	_, err := b.Create(CreateParams{User: testUser, Name: "a", Symbol: "b", URI: "c"})
	require.True(t, errors.As(err, &valErr))
	require.Equal(t, "mint", valErr.Field)

	_, err = b.Create(CreateParams{Mint: testMint, User: testUser, Name: "a", Symbol: "TOOLONGSYMBOL", URI: "c"})
	require.True(t, errors.As(err, &valErr))
	require.Equal(t, "symbol", valErr.Field)
}

func TestCreateAndBuy(t *testing.T) {
	b := newTestBuilder(t)
	g := testGlobal()

	ixs, err := b.CreateAndBuy(CreateParams{
		Mint:    testMint,
		User:    testUser,
		Creator: testCreator,
		Name:    "Pump Test",
		Symbol:  "PTST",
		URI:     "https://example.com/pt.json",
	}, g, BuyParams{
		Amount:      1_000_000_000,
		SlippageBps: 100,
		Mode:        BuyExactSol,
	})
	require.NoError(t, err)
	require.Len(t, ixs, 3)

	require.Equal(t, pump.VariantCreate, decode(t, ixs[0]).Variant)
	require.Equal(t, testCreator, decode(t, ixs[0]).Create.Creator)
	require.Equal(t, constants.AssociatedTokenProgramID, ixs[1].ProgramID())
	require.Equal(t, pump.BuyArgs{Amount: boughtTokens, MaxSolCost: 1_010_000_000}, *decode(t, ixs[2]).Buy)

	_, err = b.CreateAndBuy(CreateParams{
		Mint: testMint, User: testUser, Name: "a", Symbol: "b", URI: "c",
	}, g, BuyParams{Mint: testCreator, Amount: 1})
	require.Error(t, err)
}

func TestConfigComputeBudgetDefaults(t *testing.T) {
	cfg := config.DefaultBuilderConfig()
	cfg.ComputeUnitLimit = 120_000
	b, err := New(cfg)
	require.NoError(t, err)

	g := testGlobal()
	s := g.NewCurve(testCreator)
	ixs, err := b.Buy(BuyParams{Mint: testMint, User: testUser, Amount: 1_000, SlippageBps: 50}, &g, &s, WithSkipATA())
	require.NoError(t, err)
	require.Len(t, ixs, 2)
	require.Equal(t, computebudget.ProgramID, ixs[0].ProgramID())
}

func TestOverridesAndPreview(t *testing.T) {
	b := newTestBuilder(t)
	g := testGlobal()
	s := g.NewCurve(testCreator)
	alt := solana.MustPublicKeyFromBase58("62qc2CNXwrYqQScmEdiZFFAnJR262PxWEuNQtxfafNgV")

	var preview bytes.Buffer
	ixs, err := b.Buy(BuyParams{Mint: testMint, User: testUser, Amount: 1_000, SlippageBps: 50}, &g, &s,
		WithSkipATA(),
		WithOverrides(map[string]solana.PublicKey{"fee_recipient": alt}),
		WithPreview(&preview),
	)
	require.NoError(t, err)
	require.Equal(t, alt, ixs[0].AccountAt(1).PublicKey)

	var out struct {
		Accounts pump.TradeAccounts `json:"accounts"`
		Args     pump.BuyArgs       `json:"args"`
	}
	require.NoError(t, json.Unmarshal(preview.Bytes(), &out))
	require.Equal(t, alt, out.Accounts.FeeRecipient)
	require.EqualValues(t, 1_000, out.Args.Amount)

	_, err = b.Buy(BuyParams{Mint: testMint, User: testUser, Amount: 1_000, SlippageBps: 50}, &g, &s,
		WithOverrides(map[string]solana.PublicKey{"nope": alt}),
	)
	var valErr types.ValidationError
	require.True(t, errors.As(err, &valErr))
	require.Equal(t, "overrides", valErr.Field)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPreviewWriteErrorIsReturned(t *testing.T) {
	b := newTestBuilder(t)
	g := testGlobal()
	s := curveAfterFirstBuy()

	_, err := b.Buy(BuyParams{Mint: testMint, User: testUser, Amount: 1_000, SlippageBps: 50}, &g, &s,
		WithPreview(failingWriter{}),
	)
	require.ErrorContains(t, err, "disk full")

	_, err = b.Sell(SellParams{Mint: testMint, User: testUser, Amount: 1_000, SlippageBps: 50}, &g, &s,
		WithPreview(failingWriter{}),
	)
	require.ErrorContains(t, err, "write preview")
}

func TestMergeOverridesFromJSON(t *testing.T) {
	m, err := MergeOverridesFromJSON(nil, []byte(`{"feeRecipient":"`+constants.PumpFeeRecipient.String()+`"}`))
	require.NoError(t, err)
	require.Equal(t, constants.PumpFeeRecipient, m["feeRecipient"])

	_, err = MergeOverridesFromJSON(m, []byte(`{"feeRecipient":"xyz"}`))
	require.Error(t, err)
}

func TestSnake(t *testing.T) {
	require.Equal(t, "associated_bonding_curve", snake("AssociatedBondingCurve"))
	require.Equal(t, "associatedBondingCurve", lowerCamel("AssociatedBondingCurve"))
}
