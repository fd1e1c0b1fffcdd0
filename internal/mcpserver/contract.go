package mcpserver

// ContractFormat describes the contract record the harvester publishes, for
// operators reconciling downstream data.
const ContractFormat = `# Harvester Contract Format

Each retained invoice sales line becomes one contract. Lines without both a
quantity and a unit price, or with a non-positive weight, produce none.

## Fields

| Field | Meaning |
|-------|---------|
| ` + "`buyer`" + ` | Customer display name from the invoice |
| ` + "`seller`" + ` | Configured seller name |
| ` + "`material`" + ` | Canonical material label, never empty |
| ` + "`weight_tons`" + ` | Quantity in short tons (pounds / 2000), 6 decimals |
| ` + "`price_per_ton`" + ` | Unit price per ton, 2 decimals |
| ` + "`pricing_formula`" + ` | Always null |
| ` + "`reference_symbol`" + ` | ` + "`{doc_number}#{line_index}`" + `, unique per run |
| ` + "`reference_price`" + ` | Always null |
| ` + "`reference_source`" + ` | Source tag, ` + "`upstream`" + ` by default |
| ` + "`reference_timestamp`" + ` | Invoice transaction date |
| ` + "`currency`" + ` | Always ` + "`USD`" + ` |

## Units

- ` + "`lb`, `lbs`, `pound`, `pounds`" + `: divided by 2000.
- ` + "`ton`, `tons`, `t`" + `: taken as is; a per-ton price is not rescaled.
- Anything else follows the configured unknown-unit policy (pounds by default)
  and is logged as a warning.

## Idempotency

Every POST carries ` + "`Idempotency-Key: {reference_source}:{reference_symbol}`" + `.
Republishing the same line is safe; the downstream deduplicates on that key.
`
