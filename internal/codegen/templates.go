package codegen

const header = `/* Autogenerated file. Do not edit manually. */
/* tslint:disable */
/* eslint-disable */
`

const typingsTmpl = header + `import type {
  BaseContract,
  BigNumber,
  BigNumberish,
  BytesLike,
  CallOverrides,
  ContractTransaction,
  Overrides,
  PayableOverrides,
  PopulatedTransaction,
  Signer,
  utils,
} from "ethers";
import type { FunctionFragment, Result, EventFragment } from "@ethersproject/abi";
import type { Listener, Provider } from "@ethersproject/providers";
import type { TypedEventFilter, TypedEvent, TypedListener, OnEvent } from "./common";

export interface {{.Name}}Interface extends utils.Interface {
  functions: {
{{- range .Functions}}
    {{quote .Selector}}: FunctionFragment;
{{- end}}
  };

  getFunction(nameOrSignatureOrTopic: {{.Selectors}}): FunctionFragment;
{{range .Functions}}
  encodeFunctionData(functionFragment: {{quote .Selector}}, {{.EncodeValues}}): string;
{{- end}}
{{range .Functions}}
  decodeFunctionResult(functionFragment: {{quote .Selector}}, data: BytesLike): Result;
{{- end}}

  events: {
{{- range .Events}}
    {{quote .Signature}}: EventFragment;
{{- end}}
  };
{{range .Events}}
  getEvent(nameOrSignatureOrTopic: {{quote .Selector}}): EventFragment;
{{- end}}
}
{{range .Events}}
export interface {{.TypeName}}Object {
{{- range .Fields}}
  {{.Name}}: {{.Type}};
{{- end}}
}
export type {{.TypeName}} = TypedEvent<[{{.Tuple}}], {{.TypeName}}Object>;

export type {{.TypeName}}Filter = TypedEventFilter<{{.TypeName}}>;
{{end}}
{{jsdoc .Doc 0}}export interface {{.Name}} extends BaseContract {
  connect(signerOrProvider: Signer | Provider | string): this;
  attach(addressOrName: string): this;
  deployed(): Promise<this>;

  interface: {{.Name}}Interface;

  queryFilter<TEvent extends TypedEvent>(
    event: TypedEventFilter<TEvent>,
    fromBlockOrBlockhash?: string | number | undefined,
    toBlock?: string | number | undefined
  ): Promise<Array<TEvent>>;

  listeners<TEvent extends TypedEvent>(eventFilter?: TypedEventFilter<TEvent>): Array<TypedListener<TEvent>>;
  listeners(eventName?: string): Array<Listener>;
  removeAllListeners<TEvent extends TypedEvent>(eventFilter: TypedEventFilter<TEvent>): this;
  removeAllListeners(eventName?: string): this;
  off: OnEvent<this>;
  on: OnEvent<this>;
  once: OnEvent<this>;
  removeListener: OnEvent<this>;

  functions: {
{{- range .Functions}}
{{jsdoc .Doc 4}}    {{.Key}}({{.Params}}{{.Overrides}}): {{.FunctionsResult}};
{{- end}}
  };
{{range .Functions}}
{{jsdoc .Doc 2}}  {{.Key}}({{.Params}}{{.Overrides}}): {{.Result}};
{{end}}
  callStatic: {
{{- range .Functions}}
    {{.Key}}({{.Params}}overrides?: CallOverrides): {{.StaticResult}};
{{- end}}
  };

  filters: {
{{- range .Filters}}
    {{.Key}}({{.Params}}): {{.TypeName}}Filter;
{{- end}}
  };

  estimateGas: {
{{- range .Functions}}
    {{.Key}}({{.Params}}{{.Overrides}}): Promise<BigNumber>;
{{- end}}
  };

  populateTransaction: {
{{- range .Functions}}
    {{.Key}}({{.Params}}{{.Overrides}}): Promise<PopulatedTransaction>;
{{- end}}
  };
}
`

const factoryTmpl = header + `import { Signer, utils, Contract, ContractFactory } from "ethers";
import type { BigNumberish, BytesLike, Overrides, PayableOverrides } from "ethers";
import type { Provider, TransactionRequest } from "@ethersproject/providers";
import type { {{.Name}}, {{.Name}}Interface } from "../{{.Name}}";

const _abi = {{.ABI}};

const _bytecode =
  "0x{{.Bytecode}}";
{{if .Links}}
export type {{.Name}}LibraryAddresses = {
{{- range .Links}}
  [{{quote .Key}}]: string;
{{- end}}
};

type {{.Name}}ConstructorParams =
  | [linkLibraryAddresses: {{.Name}}LibraryAddresses, signer?: Signer]
  | ConstructorParameters<typeof ContractFactory>;

const isSuperArgs = (
  xs: {{.Name}}ConstructorParams
): xs is ConstructorParameters<typeof ContractFactory> => {
  return typeof xs[0] === "string" || Array.isArray(xs[0]) || "_isInterface" in xs[0];
};
{{else}}
type {{.Name}}ConstructorParams =
  | [signer?: Signer]
  | ConstructorParameters<typeof ContractFactory>;

const isSuperArgs = (
  xs: {{.Name}}ConstructorParams
): xs is ConstructorParameters<typeof ContractFactory> => xs.length > 1;
{{end}}
export class {{.Name}}{{.Suffix}} extends ContractFactory {
  constructor(...args: {{.Name}}ConstructorParams) {
    if (isSuperArgs(args)) {
      super(...args);
    } else {
{{- if .Links}}
      const [linkLibraryAddresses, signer] = args;
      super(_abi, {{.Name}}{{.Suffix}}.linkBytecode(linkLibraryAddresses), signer);
{{- else}}
      super(_abi, _bytecode, args[0]);
{{- end}}
    }
  }
{{if .Links}}
  static linkBytecode(linkLibraryAddresses: {{.Name}}LibraryAddresses): string {
    let linkedBytecode = _bytecode;
{{- range .Links}}
    linkedBytecode = linkedBytecode
      .split({{quote .Reference}})
      .join(linkLibraryAddresses[{{quote .Key}}].replace(/^0x/, "").toLowerCase());
{{- end}}
    return linkedBytecode;
  }
{{end}}
  override deploy({{.CtorParams}}overrides?: {{.CtorOverrides}} & { from?: string }): Promise<{{.Name}}> {
    return super.deploy({{.CtorArgs}}overrides || {}) as Promise<{{.Name}}>;
  }
  override getDeployTransaction({{.CtorParams}}overrides?: {{.CtorOverrides}} & { from?: string }): TransactionRequest {
    return super.getDeployTransaction({{.CtorArgs}}overrides || {});
  }
  override attach(address: string): {{.Name}} {
    return super.attach(address) as {{.Name}};
  }
  override connect(signer: Signer): {{.Name}}{{.Suffix}} {
    return super.connect(signer) as {{.Name}}{{.Suffix}};
  }

  static readonly bytecode = _bytecode;
  static readonly abi = _abi;
  static createInterface(): {{.Name}}Interface {
    return new utils.Interface(_abi) as {{.Name}}Interface;
  }
  static connect(address: string, signerOrProvider: Signer | Provider): {{.Name}} {
    return new Contract(address, _abi, signerOrProvider) as {{.Name}};
  }
}
`

const abstractFactoryTmpl = header + `import { Contract, Signer, utils } from "ethers";
import type { Provider } from "@ethersproject/providers";
import type { {{.Name}}, {{.Name}}Interface } from "../{{.Name}}";

const _abi = {{.ABI}};

export class {{.Name}}{{.Suffix}} {
  static readonly abi = _abi;
  static createInterface(): {{.Name}}Interface {
    return new utils.Interface(_abi) as {{.Name}}Interface;
  }
  static connect(address: string, signerOrProvider: Signer | Provider): {{.Name}} {
    return new Contract(address, _abi, signerOrProvider) as {{.Name}};
  }
}
`

const indexTmpl = header + `{{range .Names}}export type { {{.}} } from "./{{.}}";
{{end}}
{{- range .Names}}export { {{.}}{{$.Suffix}} } from "./factories/{{.}}{{$.Suffix}}";
{{end}}`

const hardhatTmpl = header + `import { ethers } from "ethers";
import {
  FactoryOptions,
  HardhatEthersHelpers as HardhatEthersHelpersBase,
} from "@nomiclabs/hardhat-ethers/types";

import * as Contracts from ".";

declare module "hardhat/types/runtime" {
  interface HardhatEthersHelpers extends HardhatEthersHelpersBase {
{{- range .Names}}
    getContractFactory(
      name: {{quote .}},
      signerOrOptions?: ethers.Signer | FactoryOptions
    ): Promise<Contracts.{{.}}{{$.Suffix}}>;
{{- end}}
{{range .Names}}
    getContractAt(
      name: {{quote .}},
      address: string,
      signer?: ethers.Signer
    ): Promise<Contracts.{{.}}>;
{{- end}}

    // default types
    getContractFactory(
      name: string,
      signerOrOptions?: ethers.Signer | FactoryOptions
    ): Promise<ethers.ContractFactory>;
    getContractFactory(
      abi: any[],
      bytecode: ethers.utils.BytesLike,
      signer?: ethers.Signer
    ): Promise<ethers.ContractFactory>;
    getContractAt(
      nameOrAbi: string | any[],
      address: string,
      signer?: ethers.Signer
    ): Promise<ethers.Contract>;
  }
}

export interface ContractFactories {
{{- range .Names}}
  {{quote .}}: Contracts.{{.}}{{$.Suffix}};
{{- end}}
}
`
