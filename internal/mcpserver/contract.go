package mcpserver

import "strings"

// OutputLayoutURI is the resource URI of the output layout document.
const OutputLayoutURI = "typegen://output-layout"

// outputLayout describes the files typegen writes so LLM consumers can
// import the bindings correctly. {{OUT_DIR}} is replaced with the
// configured output directory.
const outputLayout = `# typegen Output Layout

Bindings are generated into ` + "`{{OUT_DIR}}`" + ` for ethers v5.

## Files

| Path | Contents |
|---|---|
| ` + "`<Name>.d.ts`" + ` | Typed contract interface: ` + "`<Name>`" + `, ` + "`<Name>Interface`" + `, event types |
| ` + "`factories/<Name>__factory.ts`" + ` | Factory class ` + "`<Name>__factory`" + ` |
| ` + "`common.d.ts`" + ` | Shared helper types imported by every typings file |
| ` + "`index.ts`" + ` | Re-exports every contract type and factory, one entry per name |
| ` + "`hardhat.d.ts`" + ` | Only with ` + "`output.environment: hardhat`" + `: typed ` + "`getContractFactory`" + ` overloads |

## Factories

1. A contract whose bytecode was found gets a **deployable** factory extending
   ` + "`ContractFactory`" + ` with ` + "`deploy`" + `, ` + "`getDeployTransaction`" + `, ` + "`attach`" + ` and
   static ` + "`connect`" + `, ` + "`createInterface`" + `, ` + "`abi`" + `, ` + "`bytecode`" + `.
2. A contract with only an ABI (interfaces, abstract contracts) gets an
   **abstract** factory with static ` + "`abi`" + `, ` + "`createInterface`" + ` and ` + "`connect`" + ` only.
3. Bytecode that links libraries takes a ` + "`<Name>LibraryAddresses`" + ` map as the first
   constructor argument.

## Naming

- Names come from the artifact file name, normalized to PascalCase
  (` + "`erc20-token.abi`" + ` → ` + "`Erc20Token`" + `).
- Overloaded functions are addressed by full signature, e.g.
  ` + "`contract[\"add(uint256,uint8)\"](1, 2)`" + `.

## Example

` + "```" + `ts
import { Counter__factory } from "{{OUT_DIR}}";

const counter = await new Counter__factory(signer).deploy(0);
await counter.increment();
const n = await counter.count();
` + "```" + `
`

// OutputLayout renders the layout document for outDir.
func OutputLayout(outDir string) string {
	return strings.ReplaceAll(outputLayout, "{{OUT_DIR}}", outDir)
}
