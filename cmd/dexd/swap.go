package main

import (
	"context"

	"github.com/spf13/cobra"

	"tickswap/internal/dex"
	"tickswap/internal/model"
)

func swapRequestFromFlags(cmd *cobra.Command) (model.SwapRequest, error) {
	token0, token1, fee := pairFromFlags(cmd)
	zeroForOne, _ := cmd.Flags().GetBool("zero-for-one")

	amount, err := decFlag(cmd, "amount")
	if err != nil {
		return model.SwapRequest{}, err
	}
	limit, err := decFlag(cmd, "sqrt-price-limit")
	if err != nil {
		return model.SwapRequest{}, err
	}
	outMin, err := decFlag(cmd, "amount-out-min")
	if err != nil {
		return model.SwapRequest{}, err
	}
	inMax, err := decFlag(cmd, "amount-in-max")
	if err != nil {
		return model.SwapRequest{}, err
	}

	return model.SwapRequest{
		Token0:           token0,
		Token1:           token1,
		Fee:              fee,
		ZeroForOne:       zeroForOne,
		Amount:           amount,
		SqrtPriceLimit:   limit,
		AmountOutMinimum: outMin,
		AmountInMaximum:  inMax,
	}, nil
}

func runSwap(cmd *cobra.Command, _ []string) error {
	return withEngine(cmd, func(ctx context.Context, eng *dex.Engine, caller string) error {
		req, err := swapRequestFromFlags(cmd)
		if err != nil {
			return err
		}
		resp, err := eng.Swap(ctx, caller, req)
		if err != nil {
			return err
		}
		return printJSON(resp)
	})
}

func runQuote(cmd *cobra.Command, _ []string) error {
	return withEngine(cmd, func(ctx context.Context, eng *dex.Engine, _ string) error {
		req, err := swapRequestFromFlags(cmd)
		if err != nil {
			return err
		}
		resp, err := eng.QuoteSwap(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(resp)
	})
}
