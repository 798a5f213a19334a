package tezosprotocol

import (
	"math/big"

	"golang.org/x/xerrors"
)

// ComputeMinimumFee returns the minimum fee required according to the constraint:
//   fees >= (minimal_fees + minimal_nanotez_per_byte * size + minimal_nanotez_per_gas_unit * gas)
// Amount returned is in units of mutez.
// Reference: http://tezos.gitlab.io/mainnet/protocols/003_PsddFKi3.html#baker
func ComputeMinimumFee(gasLimit, operationSizeBytes *big.Int) *big.Int {
	storageFee := new(big.Int).Mul(operationSizeBytes, big.NewInt(DefaultMinimalNanotezPerByte))
	storageFee = new(big.Int).Div(storageFee, big.NewInt(1000))

	gasFee := new(big.Int).Mul(gasLimit, big.NewInt(DefaultMinimalNanotezPerGasUnit))
	gasFee = new(big.Int).Div(gasFee, big.NewInt(1000))

	totalFee := new(big.Int).Add(storageFee, gasFee)
	totalFee = new(big.Int).Add(totalFee, big.NewInt(DefaultMinimalFees))

	return totalFee
}

// Common values for fees
const (
	// StorageCostPerByte is the amount of mutez burned per byte of storage used.
	// Reference: https://gitlab.com/tezos/tezos/blob/f5c50c8ba1670b7a2ee58bed8a7806f00c43340c/src/proto_alpha/lib_protocol/constants_repr.ml#L126
	StorageCostPerByte = int64(1000)

	// NewAccountStorageLimitBytes is the storage needed to create a new
	// account, either implicit or originated.
	NewAccountStorageLimitBytes = int64(257)

	// NewAccountCreationBurn is the cost in mutez burned from an account that signs
	// an operation creating a new account, either by a transferring to a new implicit address
	// or by originating a KT1 address. The value is equal to êœ©0.257
	NewAccountCreationBurn = NewAccountStorageLimitBytes * StorageCostPerByte

	// DefaultMinimalFees is a flat fee that represents the cost of broadcasting
	// an operation to the network. This flat fee is added to the variable minimal
	// fees for gas spent and storage used.
	// Reference: https://gitlab.com/tezos/tezos/blob/f5c50c8ba1670b7a2ee58bed8a7806f00c43340c/src/proto_alpha/lib_client/client_proto_args.ml#L251
	DefaultMinimalFees = int64(100)

	// DefaultMinimalNanotezPerGasUnit is the default fee rate in nanotez that nodes expect
	// per unit gas spent by an operation (and all its contents).
	// Reference: https://gitlab.com/tezos/tezos/blob/f5c50c8ba1670b7a2ee58bed8a7806f00c43340c/src/proto_alpha/lib_client/client_proto_args.ml#L252
	DefaultMinimalNanotezPerGasUnit = int64(100)

	// DefaultMinimalNanotezPerByte is the default fee rate in nanotez that nodes expect per
	// byte of a serialized, signed operation -- including header and all contents.
	// Reference: https://gitlab.com/tezos/tezos/blob/f5c50c8ba1670b7a2ee58bed8a7806f00c43340c/src/proto_alpha/lib_client/client_proto_args.ml#L253
	DefaultMinimalNanotezPerByte = int64(1000)

	// OriginationGasLimit is the gas consumed by a simple origination.
	// reference: http://tezos.gitlab.io/mainnet/protocols/003_PsddFKi3.html#more-details-on-fees-and-cost-model
	OriginationGasLimit = int64(10000)

	// MinimumOriginationSizeBytes is the smallest size in bytes of a serialized,
	// signed origination operation
	MinimumOriginationSizeBytes = int64(152)

	// OriginationMinimumFee is the minimum amount to be paid to a baker for an
	// operation with one origination
	OriginationMinimumFee = DefaultMinimalFees +
		DefaultMinimalNanotezPerByte*MinimumOriginationSizeBytes/int64(1000) +
		DefaultMinimalNanotezPerGasUnit*OriginationGasLimit/int64(1000)

	// OriginationStorageLimitBytes is the storage limit required for originations
	OriginationStorageLimitBytes = NewAccountStorageLimitBytes

	// OriginationStorageBurn is the amount of mutez burned by an account as a consequence
	// of signing an origination.
	OriginationStorageBurn = OriginationStorageLimitBytes * StorageCostPerByte

	// reference: http://tezos.gitlab.io/mainnet/protocols/003_PsddFKi3.html#more-details-on-fees-and-cost-model
	MinimumOriginatedAccountTransferGasLimit  = int64(10100)
	MinimumOriginatedAccountTransferSizeBytes = int64(215)

	// OriginatedAccountTransferMinimumFee is the minimum amount to be paid to a baker
	// for a transfer from an originated account
	OriginatedAccountTransferMinimumFee = DefaultMinimalFees +
		DefaultMinimalNanotezPerByte*MinimumOriginatedAccountTransferSizeBytes/int64(1000) +
		DefaultMinimalNanotezPerGasUnit*MinimumOriginatedAccountTransferGasLimit/int64(1000)

	// RevelationGasLimit is the gas consumed by a revelation
	RevelationGasLimit = int64(10000)

	// RevelationStorageLimitBytes is the storage limit required for revelations. Note that
	// it is zero.
	RevelationStorageLimitBytes = int64(0)

	// RevelationStorageBurn is the amount burned by an account as a consequence
	// of signing a revelation. Note that it is zero.
	RevelationStorageBurn = RevelationStorageLimitBytes * StorageCostPerByte

	// MinimumTransactionGasLimit is the gas consumed by a transaction with no parameters
	// that does not result in any Michelson code execution.
	MinimumTransactionGasLimit = int64(10200)

	// DelegationGasLimit is the gas consumed by a delegation
	DelegationGasLimit = int64(10000)

	// DelegationStorageLimitBytes is the storage limit required for delegations. Note that
	// it is zero.
	DelegationStorageLimitBytes = int64(0)

	// DelegationStorageBurn is the amount burned by an account as a consequence
	// of signing a delegation. Note that it is zero.
	DelegationStorageBurn = DelegationStorageLimitBytes * StorageCostPerByte

	// HardGasLimitPerOperation is the protocol-enforced ceiling on gas_limit
	// for a single operation.
	HardGasLimitPerOperation = int64(1040000)

	// HardStorageLimitPerOperation is the protocol-enforced ceiling on
	// storage_limit for a single operation.
	HardStorageLimitPerOperation = int64(60000)

	// BaseSafetyMarginGas is added on top of a preapply's measured gas
	// consumption before it is used as an operation's gas_limit, since actual
	// injection-time execution can consume marginally more gas than
	// simulation did.
	BaseSafetyMarginGas = int64(100)

	// FeeSafetyMarginMutez is added on top of CalculateFee's computed fee so
	// that small simulation-vs-injection discrepancies in operation size
	// (e.g. a one-byte-longer zarith-encoded fee once the real fee is
	// plugged back in) don't cause the node to reject the operation as
	// underpaying its own required minimum.
	FeeSafetyMarginMutez = int64(1)

	// placeholderSignatureLen is the byte length reserved for the signature
	// when measuring an unsigned operation's forged size, matching the fixed
	// length of every supported curve's raw R||S / Ed25519 signature.
	placeholderSignatureLen = 64
)

// OperationResultMetadata is the subset of a preapply response's per-content
// "metadata.operation_result" object needed to compute a fee: gas consumed
// and the paid storage size diff, both returned by the node as decimal
// strings.
type OperationResultMetadata struct {
	ConsumedMilligas    string `json:"consumed_milligas"`
	PaidStorageSizeDiff string `json:"paid_storage_size_diff"`
}

// InternalOperationResult is one entry of a preapplied content's
// "metadata.internal_operation_results" array -- an operation injected by
// the contract code itself (e.g. a contract-to-contract transfer), whose gas
// and storage cost count toward the whole group's fee.
type InternalOperationResult struct {
	Result OperationResultMetadata `json:"result"`
}

// PreappliedContentMetadata is the "metadata" object of one content entry in
// a /helpers/preapply/operations response.
type PreappliedContentMetadata struct {
	OperationResult          OperationResultMetadata   `json:"operation_result"`
	InternalOperationResults []InternalOperationResult `json:"internal_operation_results"`
}

// PreappliedContent is one entry of a preapply response's "contents" array.
type PreappliedContent struct {
	Metadata PreappliedContentMetadata `json:"metadata"`
}

// PreapplyResult is the subset of a node's
// POST /chains/main/blocks/head/helpers/preapply/operations response needed
// to compute a fee for the operation group that produced it.
type PreapplyResult struct {
	Contents []PreappliedContent `json:"contents"`
}

// FeeEstimate is the result of running CalculateFee: the fee to set on the
// operation group, plus the gas_limit and storage_limit a caller should set
// on its (single) content to cover what the simulation measured.
type FeeEstimate struct {
	Fee          *big.Int
	GasLimit     *big.Int
	StorageLimit *big.Int
}

// CalculateFee computes the fee, gas_limit, and storage_limit to set on
// operation before submitting it, from the preapply simulation result
// obtained by preapplying operation with a zero fee. It sums consumed
// milligas and storage diff across every content and its internal
// operations, forges operation (whose contents should still carry
// placeholder fee/gas/storage values) to measure its byte size, and applies
// the fee formula:
//
//	fee = MINIMAL_FEES + ceil((byte_size*MINIMAL_NANOTEZ_PER_BYTE + gas*MINIMAL_NANOTEZ_PER_GAS_UNIT)/1000) + margin
func CalculateFee(operation *Operation, preapply *PreapplyResult) (*FeeEstimate, error) {
	milligas := big.NewInt(0)
	storageDiff := big.NewInt(0)
	for _, content := range preapply.Contents {
		if err := accumulateResult(milligas, storageDiff, content.Metadata.OperationResult); err != nil {
			return nil, err
		}
		for _, internal := range content.Metadata.InternalOperationResults {
			if err := accumulateResult(milligas, storageDiff, internal.Result); err != nil {
				return nil, err
			}
		}
	}

	gasLimit := ceilDiv(milligas, 1000)
	gasLimit.Add(gasLimit, big.NewInt(BaseSafetyMarginGas))
	if gasLimit.Cmp(big.NewInt(HardGasLimitPerOperation)) > 0 {
		gasLimit = big.NewInt(HardGasLimitPerOperation)
	}

	storageLimit := new(big.Int).Set(storageDiff)
	if storageLimit.Cmp(big.NewInt(HardStorageLimitPerOperation)) > 0 {
		storageLimit = big.NewInt(HardStorageLimitPerOperation)
	}

	forged, err := operation.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("failed to forge operation to measure its size: %w", err)
	}
	byteSize := big.NewInt(int64(len(forged) + placeholderSignatureLen))

	variableFee := ceilDiv(new(big.Int).Add(
		new(big.Int).Mul(byteSize, big.NewInt(DefaultMinimalNanotezPerByte)),
		new(big.Int).Mul(gasLimit, big.NewInt(DefaultMinimalNanotezPerGasUnit)),
	), 1000)

	fee := new(big.Int).Add(big.NewInt(DefaultMinimalFees), variableFee)
	fee.Add(fee, big.NewInt(FeeSafetyMarginMutez))

	return &FeeEstimate{Fee: fee, GasLimit: gasLimit, StorageLimit: storageLimit}, nil
}

func accumulateResult(milligas, storageDiff *big.Int, result OperationResultMetadata) error {
	if result.ConsumedMilligas != "" {
		v, ok := new(big.Int).SetString(result.ConsumedMilligas, 10)
		if !ok {
			return xerrors.Errorf("invalid consumed_milligas value %q", result.ConsumedMilligas)
		}
		milligas.Add(milligas, v)
	}
	if result.PaidStorageSizeDiff != "" {
		v, ok := new(big.Int).SetString(result.PaidStorageSizeDiff, 10)
		if !ok {
			return xerrors.Errorf("invalid paid_storage_size_diff value %q", result.PaidStorageSizeDiff)
		}
		storageDiff.Add(storageDiff, v)
	}
	return nil
}

// ceilDiv returns ceil(numerator / divisor) for non-negative numerator.
func ceilDiv(numerator *big.Int, divisor int64) *big.Int {
	d := big.NewInt(divisor)
	q, r := new(big.Int).QuoRem(numerator, d, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}
