package main

import (
	"context"

	"github.com/spf13/cobra"

	"tickswap/internal/dex"
	"tickswap/internal/model"
)

func runAddLiquidity(cmd *cobra.Command, _ []string) error {
	return withEngine(cmd, func(ctx context.Context, eng *dex.Engine, caller string) error {
		token0, token1, fee := pairFromFlags(cmd)
		tickLower, _ := cmd.Flags().GetInt32("tick-lower")
		tickUpper, _ := cmd.Flags().GetInt32("tick-upper")
		positionID, _ := cmd.Flags().GetString("position-id")
		uniqueKey, _ := cmd.Flags().GetString("unique-key")

		amount0, err := decFlag(cmd, "amount0")
		if err != nil {
			return err
		}
		amount1, err := decFlag(cmd, "amount1")
		if err != nil {
			return err
		}
		amount0Min, err := decFlag(cmd, "amount0-min")
		if err != nil {
			return err
		}
		amount1Min, err := decFlag(cmd, "amount1-min")
		if err != nil {
			return err
		}

		resp, err := eng.AddLiquidity(ctx, caller, model.AddLiquidityRequest{
			Token0:         token0,
			Token1:         token1,
			Fee:            fee,
			TickLower:      tickLower,
			TickUpper:      tickUpper,
			Amount0Desired: amount0,
			Amount1Desired: amount1,
			Amount0Min:     amount0Min,
			Amount1Min:     amount1Min,
			PositionID:     positionID,
			UniqueKey:      uniqueKey,
		})
		if err != nil {
			return err
		}
		return printJSON(resp)
	})
}

func runRemoveLiquidity(cmd *cobra.Command, _ []string) error {
	return withEngine(cmd, func(ctx context.Context, eng *dex.Engine, caller string) error {
		token0, token1, fee := pairFromFlags(cmd)
		tickLower, _ := cmd.Flags().GetInt32("tick-lower")
		tickUpper, _ := cmd.Flags().GetInt32("tick-upper")
		positionID, _ := cmd.Flags().GetString("position-id")

		liquidity, err := decFlag(cmd, "liquidity")
		if err != nil {
			return err
		}

		resp, err := eng.RemoveLiquidity(ctx, caller, model.BurnRequest{
			Token0:     token0,
			Token1:     token1,
			Fee:        fee,
			TickLower:  tickLower,
			TickUpper:  tickUpper,
			Liquidity:  liquidity,
			PositionID: positionID,
		})
		if err != nil {
			return err
		}
		return printJSON(resp)
	})
}

func runCollect(cmd *cobra.Command, _ []string) error {
	return withEngine(cmd, func(ctx context.Context, eng *dex.Engine, caller string) error {
		token0, token1, fee := pairFromFlags(cmd)
		tickLower, _ := cmd.Flags().GetInt32("tick-lower")
		tickUpper, _ := cmd.Flags().GetInt32("tick-upper")
		positionID, _ := cmd.Flags().GetString("position-id")

		amount0, err := decFlag(cmd, "amount0")
		if err != nil {
			return err
		}
		amount1, err := decFlag(cmd, "amount1")
		if err != nil {
			return err
		}

		resp, err := eng.CollectFees(ctx, caller, model.CollectRequest{
			Token0:           token0,
			Token1:           token1,
			Fee:              fee,
			TickLower:        tickLower,
			TickUpper:        tickUpper,
			Amount0Requested: amount0,
			Amount1Requested: amount1,
			PositionID:       positionID,
		})
		if err != nil {
			return err
		}
		return printJSON(resp)
	})
}

func runPositions(cmd *cobra.Command, _ []string) error {
	return withEngine(cmd, func(ctx context.Context, eng *dex.Engine, caller string) error {
		owner, _ := cmd.Flags().GetString("owner")
		if owner == "" {
			owner = caller
		}
		bookmark, _ := cmd.Flags().GetString("bookmark")
		limit, _ := cmd.Flags().GetInt("limit")

		resp, err := eng.GetUserPositions(ctx, owner, bookmark, limit)
		if err != nil {
			return err
		}
		return printJSON(resp)
	})
}
