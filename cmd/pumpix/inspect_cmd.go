package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
	"github.com/ninja0404/pump-curve-sdk/pkg/jito"
	"github.com/ninja0404/pump-curve-sdk/pkg/pda"
	"github.com/ninja0404/pump-curve-sdk/pkg/program/pump"
	sdkrpc "github.com/ninja0404/pump-curve-sdk/pkg/rpc"
)

func newInspectCmd() *cobra.Command {
	var (
		encoding  string
		errorMode bool
	)
	cmd := &cobra.Command{
		Use:   "inspect [data]",
		Short: "Decode pump instruction data (base58 or base64), or a program error with --error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if errorMode {
				return inspectError(cmd, args[0])
			}
			data, err := decodeBytes(args[0], encoding)
			if err != nil {
				return err
			}
			decoded, err := pump.DecodeInstruction(data)
			if err != nil {
				return err
			}
			return printJSON(cmd, decoded)
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "auto", "input encoding (base58|base64|auto)")
	cmd.Flags().BoolVar(&errorMode, "error", false, "treat the argument as a program error code or log line")
	return cmd
}

func inspectError(cmd *cobra.Command, s string) error {
	if code, err := strconv.ParseInt(s, 0, 32); err == nil {
		pe, ok := pump.ErrorFromCode(int(code))
		if !ok {
			return fmt.Errorf("unknown pump error code %d", code)
		}
		return printJSON(cmd, pe)
	}
	parsed := pump.ParseError(errors.New(s))
	fmt.Fprintln(cmd.OutOrStdout(), parsed.Error())
	return nil
}

func newDeriveCmd() *cobra.Command {
	var (
		creatorStr string
		userStr    string
		programStr string
		token2022  bool
	)
	cmd := &cobra.Command{
		Use:   "derive [mint]",
		Short: "Derive the pump accounts of a mint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePubkey("mint", args[0])
			if err != nil {
				return err
			}
			program, err := parseOptionalPubkey("program", programStr)
			if err != nil {
				return err
			}
			tokenProgram := constants.TokenProgramID
			if token2022 {
				tokenProgram = constants.Token2022ProgramID
			}
			d := pda.NewDeriver(program)

			out := map[string]string{}
			add := func(name string, addr pda.ProgramAddress, err error) error {
				if err != nil {
					return fmt.Errorf("derive %s: %w", name, err)
				}
				out[name] = fmt.Sprintf("%s (bump %d)", addr.Address(), addr.Bump())
				return nil
			}
			global, err := d.Global()
			if err := add("global", global, err); err != nil {
				return err
			}
			curveAddr, err := d.BondingCurve(mint)
			if err := add("bondingCurve", curveAddr, err); err != nil {
				return err
			}
			assocBC, err := d.AssociatedBondingCurve(mint, tokenProgram)
			if err := add("associatedBondingCurve", assocBC, err); err != nil {
				return err
			}
			mintAuthority, err := d.MintAuthority()
			if err := add("mintAuthority", mintAuthority, err); err != nil {
				return err
			}
			eventAuthority, err := d.EventAuthority()
			if err := add("eventAuthority", eventAuthority, err); err != nil {
				return err
			}
			metadata, err := pda.Metadata(mint)
			if err := add("metadata", metadata, err); err != nil {
				return err
			}
			gva, err := d.GlobalVolumeAccumulator()
			if err := add("globalVolumeAccumulator", gva, err); err != nil {
				return err
			}
			feeConfig, err := d.FeeConfig()
			if err := add("feeConfig", feeConfig, err); err != nil {
				return err
			}
			if creatorStr != "" {
				creator, err := parsePubkey("creator", creatorStr)
				if err != nil {
					return err
				}
				vault, err := d.CreatorVault(creator)
				if err := add("creatorVault", vault, err); err != nil {
					return err
				}
			}
			if userStr != "" {
				user, err := parsePubkey("user", userStr)
				if err != nil {
					return err
				}
				ata, err := pda.AssociatedTokenAccount(user, mint, tokenProgram)
				if err := add("associatedUser", ata, err); err != nil {
					return err
				}
				uva, err := d.UserVolumeAccumulator(user)
				if err := add("userVolumeAccumulator", uva, err); err != nil {
					return err
				}
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&creatorStr, "creator", "", "creator pubkey (adds creator vault)")
	cmd.Flags().StringVar(&userStr, "user", "", "user pubkey (adds user token account)")
	cmd.Flags().StringVar(&programStr, "program", "", "pump program id (default mainnet)")
	cmd.Flags().BoolVar(&token2022, "token-2022", false, "mint is owned by Token-2022")
	return cmd
}

func newAccountCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "account [pubkey]",
		Short: "Fetch and decode a pump Global or BondingCurve account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := parsePubkey("account", args[0])
			if err != nil {
				return err
			}
			client, err := sdkrpc.NewClient(rpcConfigFromOpts(opts, cmd))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			data, err := client.FetchAccountBytes(ctx, pub)
			if err != nil {
				return err
			}
			name, decoded, err := decodeKnownAccount(data)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"account": name, "data": decoded})
		},
	}
}

func decodeKnownAccount(data []byte) (string, any, error) {
	if len(data) < 8 {
		return "", nil, fmt.Errorf("account data too short")
	}
	switch {
	case bytes.Equal(data[:8], pump.GlobalDiscriminator[:]):
		g, err := pump.DecodeGlobalConfig(data)
		return "pump.Global", g, err
	case bytes.Equal(data[:8], pump.BondingCurveDiscriminator[:]):
		s, err := pump.DecodeBondingCurve(data)
		if err != nil {
			return "pump.BondingCurve", nil, err
		}
		return "pump.BondingCurve", viewState(s), nil
	}
	return "", nil, fmt.Errorf("unknown discriminator")
}

func newTipsCmd() *cobra.Command {
	var (
		live      bool
		endpoints []string
		uuid      string
	)
	cmd := &cobra.Command{
		Use:   "tips",
		Short: "List Jito tip accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !live {
				return printJSON(cmd, jito.MainnetTipAccounts)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			accounts, err := jito.NewClientWithEndpoints(endpoints, uuid).GetTipAccounts(ctx)
			if err != nil {
				return err
			}
			if accounts == nil {
				accounts = []solana.PublicKey{}
			}
			return printJSON(cmd, accounts)
		},
	}
	cmd.Flags().BoolVar(&live, "live", false, "ask the block engine instead of printing the built-in list")
	cmd.Flags().StringSliceVar(&endpoints, "block-engine", nil, "block engine endpoints (default mainnet regions)")
	cmd.Flags().StringVar(&uuid, "uuid", "", "Jito auth uuid")
	return cmd
}
