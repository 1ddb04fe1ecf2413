package main

import (
	"context"

	"github.com/spf13/cobra"

	"tickswap/internal/dex"
	"tickswap/internal/model"
)

func pairFromFlags(cmd *cobra.Command) (string, string, model.FeeTier) {
	token0, _ := cmd.Flags().GetString("token0")
	token1, _ := cmd.Flags().GetString("token1")
	fee, _ := cmd.Flags().GetInt32("fee")
	return token0, token1, model.FeeTier(fee)
}

func runRegisterToken(cmd *cobra.Command, _ []string) error {
	return withEngine(cmd, func(ctx context.Context, eng *dex.Engine, caller string) error {
		token, _ := cmd.Flags().GetString("token")
		symbol, _ := cmd.Flags().GetString("symbol")
		decimals, _ := cmd.Flags().GetInt32("decimals")
		image, _ := cmd.Flags().GetString("image")
		authorities, _ := cmd.Flags().GetStringSlice("token-authority")
		supplyTo, _ := cmd.Flags().GetString("supply-to")
		supply, err := decFlag(cmd, "supply")
		if err != nil {
			return err
		}
		return eng.RegisterTokenClass(ctx, caller, model.RegisterTokenClassRequest{
			Token:         token,
			Symbol:        symbol,
			Decimals:      decimals,
			Image:         image,
			Authorities:   authorities,
			InitialSupply: supply,
			SupplyTo:      supplyTo,
		})
	})
}

func runCreatePool(cmd *cobra.Command, _ []string) error {
	return withEngine(cmd, func(ctx context.Context, eng *dex.Engine, caller string) error {
		token0, token1, fee := pairFromFlags(cmd)
		sqrtPrice, err := decFlag(cmd, "sqrt-price")
		if err != nil {
			return err
		}
		protocolFee, err := decFlag(cmd, "protocol-fee")
		if err != nil {
			return err
		}
		resp, err := eng.CreatePool(ctx, caller, model.CreatePoolRequest{
			Token0:           token0,
			Token1:           token1,
			Fee:              fee,
			InitialSqrtPrice: sqrtPrice,
			ProtocolFee:      protocolFee,
		})
		if err != nil {
			return err
		}
		return printJSON(resp)
	})
}

func runPool(cmd *cobra.Command, _ []string) error {
	return withEngine(cmd, func(ctx context.Context, eng *dex.Engine, _ string) error {
		token0, token1, fee := pairFromFlags(cmd)
		pool, err := eng.GetPoolData(ctx, token0, token1, fee)
		if err != nil {
			return err
		}
		return printJSON(pool)
	})
}

func runCollectProtocolFees(cmd *cobra.Command, _ []string) error {
	return withEngine(cmd, func(ctx context.Context, eng *dex.Engine, caller string) error {
		token0, token1, fee := pairFromFlags(cmd)
		recipient, _ := cmd.Flags().GetString("recipient")
		resp, err := eng.CollectProtocolFees(ctx, caller, model.CollectProtocolFeesRequest{
			Token0:    token0,
			Token1:    token1,
			Fee:       fee,
			Recipient: recipient,
		})
		if err != nil {
			return err
		}
		return printJSON(resp)
	})
}

func runSetProtocolFee(cmd *cobra.Command, _ []string) error {
	return withEngine(cmd, func(ctx context.Context, eng *dex.Engine, caller string) error {
		token0, token1, fee := pairFromFlags(cmd)
		protocolFee, err := decFlag(cmd, "protocol-fee")
		if err != nil {
			return err
		}
		return eng.SetProtocolFee(ctx, caller, model.SetProtocolFeeRequest{
			Token0:      token0,
			Token1:      token1,
			Fee:         fee,
			ProtocolFee: protocolFee,
		})
	})
}
